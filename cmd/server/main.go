package main

import (
	"flag"
	"log"
	"log/slog"
	"strings"

	"licensedesk/bot"
	"licensedesk/impl/auth"
	"licensedesk/impl/core"
	"licensedesk/internal/config"
	"licensedesk/internal/database"
	"licensedesk/internal/http-server/api"
	"licensedesk/lib/logger"
	"licensedesk/lib/sl"
)

const logFileName = "licensedesk.log"

func main() {
	configPath := flag.String("conf", "config.yml", "path to config file")
	logPath := flag.String("log", "/var/log/", "path to log file directory")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	lg, err := logger.SetupLogger(conf.Env, *logPath, logFileName)
	if err != nil {
		log.Fatal("setting up logger: ", err)
	}
	lg.Info("starting licensedesk", slog.String("config", *configPath), slog.String("env", conf.Env))

	var tgBot *bot.TgBot
	if conf.Telegram.Enabled {
		tgBot, err = bot.NewTgBot(conf.Telegram.ApiKey, conf.Telegram.AdminIds, lg)
		if err != nil {
			lg.Error("telegram bot", sl.Err(err))
		} else {
			lg = slog.New(logger.NewTelegramHandler(lg.Handler(), tgBot, parseLevel(conf.Telegram.LogLevel)))
		}
	}

	var db core.Database
	if mongo := database.NewMongoClient(conf); mongo != nil {
		db = mongo
		lg.With(
			slog.String("host", conf.Mongo.Host),
			slog.String("database", conf.Mongo.Database),
		).Info("mongo configured")
	} else {
		lg.Warn("mongo disabled; api calls will answer 503")
	}

	handler := core.New(db, lg)
	handler.SetAuthService(auth.New(conf.Admin.Token))

	if tgBot != nil {
		tgBot.SetCore(handler)
		handler.SetMessenger(tgBot)
		go func() {
			if e := tgBot.Start(); e != nil {
				lg.Error("starting telegram bot", sl.Err(e))
			}
		}()
	}

	// will block here
	if err = api.New(conf, lg, handler); err != nil {
		lg.Error("server stopped", sl.Err(err))
	}
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelError
	}
	return level
}
