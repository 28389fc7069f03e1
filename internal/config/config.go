package config

import (
	"fmt"
	"github.com/ilyakaznacheev/cleanenv"
	"log"
	"sync"
)

type Listen struct {
	Enabled bool   `yaml:"enabled" env-default:"false"`
	BindIp  string `yaml:"bind_ip" env-default:"0.0.0.0"`
	Port    string `yaml:"port" env-default:"8080"`
}

type TelegramConfig struct {
	ApiKey  string `yaml:"api_key" env:"TELEGRAM_BOT_TOKEN" env-default:""`
	AdminId int64  `yaml:"admin_id" env:"TELEGRAM_ADMIN_ID" env-default:"0"`
}

type StorageConfig struct {
	UsersFile string `yaml:"users_file" env-default:"users.json"`
	DailyMax  int    `yaml:"daily_max" env-default:"3"`
}

type ApiConfig struct {
	Token string `yaml:"token" env:"API_TOKEN" env-default:""`
}

type MongoConfig struct {
	Enabled  bool   `yaml:"enabled" env-default:"false"`
	Host     string `yaml:"host" env-default:"localhost"`
	Port     string `yaml:"port" env-default:"27017"`
	User     string `yaml:"user" env-default:""`
	Password string `yaml:"password" env-default:""`
	Database string `yaml:"database" env-default:"tfabot"`
}

type Config struct {
	Telegram TelegramConfig `yaml:"telegram"`
	Storage  StorageConfig  `yaml:"storage"`
	Mongo    MongoConfig    `yaml:"mongo"`
	Api      ApiConfig      `yaml:"api"`
	Listen   Listen         `yaml:"listen"`
	Env      string         `yaml:"env" env-default:"local"`
}

var instance *Config
var once sync.Once

func MustLoad(path string) *Config {
	var err error
	once.Do(func() {
		instance = &Config{}
		if err = cleanenv.ReadConfig(path, instance); err != nil {
			desc, _ := cleanenv.GetDescription(instance, nil)
			err = fmt.Errorf("config: %s; %s", err, desc)
			instance = nil
			log.Fatal(err)
		}
		// the bot cannot serve a single command without these two
		if instance.Telegram.ApiKey == "" {
			log.Fatal("config: telegram api_key is not set")
		}
		if instance.Telegram.AdminId <= 0 {
			log.Fatal("config: telegram admin_id is not set")
		}
		if instance.Storage.DailyMax <= 0 {
			instance.Storage.DailyMax = 3
		}
	})
	return instance
}
