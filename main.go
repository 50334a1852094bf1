package main

import (
	"github.com/Sahaji-2003/Food-Tracker/internal/config"
	"github.com/Sahaji-2003/Food-Tracker/internal/db"
	"github.com/Sahaji-2003/Food-Tracker/internal/jobs"
	"github.com/Sahaji-2003/Food-Tracker/internal/logger"
	"github.com/Sahaji-2003/Food-Tracker/internal/server"
)

func main() {
	if err := logger.Init(); err != nil {
		panic(err)
	}

	log := logger.L()
	log.Info("Инициализация логгера успешна")
	cfg := config.Load(log)

	db.ConnectDB(cfg, log)
	db.Migrate(log)

	jobs.Start(log)

	server.Run(cfg, log)
}
