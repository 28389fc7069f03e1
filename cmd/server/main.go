package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"

	"tfabot/bot"
	"tfabot/impl/auth"
	"tfabot/impl/core"
	"tfabot/internal/config"
	"tfabot/internal/database"
	"tfabot/internal/http-server/api"
	"tfabot/internal/quota"
	"tfabot/lib/logger"
	"tfabot/lib/sl"
)

const logFileName = "tfabot.log"

func main() {
	configPath := flag.String("conf", "config.yml", "path to config file")
	logPath := flag.String("log", "/var/log/", "path to log file directory")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	base := logger.SetupLogger(conf.Env, filepath.Join(*logPath, logFileName))

	// error-level records also reach the admin chat once the bot is up
	alerts := logger.NewTelegramHandler(base.Handler(), slog.LevelError)
	log := slog.New(alerts)
	log.Info("starting tfabot", slog.String("config", *configPath), slog.String("env", conf.Env))

	var storage quota.Storage
	if mongo := database.NewMongoClient(conf); mongo != nil {
		storage = mongo
		log.Info("using mongodb storage", slog.String("database", conf.Mongo.Database))
	} else {
		storage = database.NewFileStorage(conf.Storage.UsersFile)
		log.Info("using file storage", slog.String("file", conf.Storage.UsersFile))
	}

	service := quota.New(storage, conf.Storage.DailyMax, log)

	tgBot, err := bot.NewTgBot(conf.Telegram.ApiKey, conf.Telegram.AdminId, service, log)
	if err != nil {
		log.Error("creating telegram bot", sl.Err(err))
		os.Exit(1)
	}
	alerts.AttachBot(tgBot)

	if conf.Listen.Enabled {
		handler := core.New(service, auth.New(conf.Api.Token), log)
		go func() {
			if err := api.New(conf, log, handler); err != nil {
				log.Error("api server stopped", sl.Err(err))
			}
		}()
	}

	if err = tgBot.Start(); err != nil {
		log.Error("starting telegram bot", sl.Err(err))
		os.Exit(1)
	}
}
