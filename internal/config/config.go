package config

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Listen struct {
	BindIp string `yaml:"bind_ip" env-default:"0.0.0.0"`
	Port   string `yaml:"port" env-default:"8080"`
}

type Mongo struct {
	Enabled  bool   `yaml:"enabled" env-default:"false"`
	Host     string `yaml:"host" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env-default:"27017"`
	User     string `yaml:"user" env-default:""`
	Password string `yaml:"password" env-default:""`
	Database string `yaml:"database" env-default:"licensedesk"`
}

type Telegram struct {
	Enabled  bool    `yaml:"enabled" env-default:"false"`
	ApiKey   string  `yaml:"api_key" env-default:""`
	AdminIds []int64 `yaml:"admin_ids"`
	// records at this level and above are mirrored to the admin chats
	LogLevel string `yaml:"log_level" env-default:"warn"`
}

type Admin struct {
	Token        string `yaml:"token" env:"LICENSEDESK_ADMIN_TOKEN" env-default:""`
	ProtectReads bool   `yaml:"protect_reads" env-default:"true"`
	// request timeout in seconds
	Timeout int `yaml:"timeout" env-default:"5"`
}

// Config is the backend service configuration.
type Config struct {
	Env      string   `yaml:"env" env-default:"local"`
	Listen   Listen   `yaml:"listen"`
	Mongo    Mongo    `yaml:"mongo"`
	Telegram Telegram `yaml:"telegram"`
	Admin    Admin    `yaml:"admin"`
}

type Api struct {
	BaseURL string        `yaml:"base_url" env-default:"http://127.0.0.1:8080/api"`
	Token   string        `yaml:"token" env:"LICENSEDESK_ADMIN_TOKEN" env-default:""`
	Timeout time.Duration `yaml:"timeout" env-default:"10s"`
}

type Metrics struct {
	// empty disables the /metrics listener
	Listen string `yaml:"listen" env-default:""`
}

// ConsoleConfig is the operator console configuration.
type ConsoleConfig struct {
	Env          string        `yaml:"env" env-default:"local"`
	Api          Api           `yaml:"api"`
	PollInterval time.Duration `yaml:"poll_interval" env-default:"3s"`
	Collections  []string      `yaml:"collections"`
	Metrics      Metrics       `yaml:"metrics"`
}

var (
	instance        *Config
	once            sync.Once
	consoleInstance *ConsoleConfig
	consoleOnce     sync.Once
)

func MustLoad(path string) *Config {
	once.Do(func() {
		conf, err := Load(path)
		if err != nil {
			log.Fatal(err)
		}
		instance = conf
	})
	return instance
}

func MustLoadConsole(path string) *ConsoleConfig {
	consoleOnce.Do(func() {
		conf, err := LoadConsole(path)
		if err != nil {
			log.Fatal(err)
		}
		consoleInstance = conf
	})
	return consoleInstance
}

func Load(path string) (*Config, error) {
	conf := &Config{}
	if err := read(path, conf); err != nil {
		return nil, err
	}
	return conf, nil
}

func LoadConsole(path string) (*ConsoleConfig, error) {
	conf := &ConsoleConfig{}
	if err := read(path, conf); err != nil {
		return nil, err
	}
	return conf, nil
}

func read(path string, conf interface{}) error {
	if err := cleanenv.ReadConfig(path, conf); err != nil {
		desc, _ := cleanenv.GetDescription(conf, nil)
		return fmt.Errorf("config: %s; %s", err, desc)
	}
	return nil
}
