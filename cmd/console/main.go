package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"licensedesk/internal/config"
	"licensedesk/internal/console"
	"licensedesk/lib/logger"
	"licensedesk/lib/sl"
)

const logFileName = "licensedesk-console.log"

func main() {
	configPath := flag.String("conf", "console.yml", "path to config file")
	logPath := flag.String("log", "/var/log/", "path to log file directory")
	assumeYes := flag.Bool("yes", false, "confirm destructive actions without asking")
	flag.Usage = func() {
		_, _ = fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	conf := config.MustLoadConsole(*configPath)
	lg, err := logger.SetupLogger(conf.Env, *logPath, logFileName)
	if err != nil {
		log.Fatal("setting up logger: ", err)
	}

	collections, err := console.ParseCollections(conf.Collections)
	if err != nil {
		log.Fatal("config: ", err)
	}

	registry := prometheus.NewRegistry()
	metrics := console.NewMetrics(registry)
	if conf.Metrics.Listen != "" {
		go serveMetrics(conf.Metrics.Listen, registry, lg)
	}

	client := console.NewClient(console.ClientConfig{
		BaseURL: conf.Api.BaseURL,
		Token:   conf.Api.Token,
		Timeout: conf.Api.Timeout,
	}, lg)
	store := console.NewStore()
	poller := console.NewPoller(client, store, console.PollerOptions{
		Interval:    conf.PollInterval,
		Collections: collections,
		Metrics:     metrics,
	}, lg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{
		desk:     console.New(client, poller, store, confirmer(os.Stdin, os.Stdout, *assumeYes), lg),
		poller:   poller,
		out:      os.Stdout,
		interval: conf.PollInterval,
		now:      time.Now,
	}
	if err = a.run(ctx, flag.Args()); err != nil {
		if errors.Is(err, errUsage) {
			flag.Usage()
		} else {
			_, _ = fmt.Fprintln(os.Stderr, "error:", err)
		}
		stop()
		os.Exit(1)
	}
}

func serveMetrics(addr string, registry *prometheus.Registry, lg *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	lg.Info("serving metrics", slog.String("address", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		lg.Error("metrics listener", sl.Err(err))
	}
}
