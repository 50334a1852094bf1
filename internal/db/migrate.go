package db

import (
	"os"

	"github.com/Sahaji-2003/Food-Tracker/internal/models"
	"go.uber.org/zap"
)

func Migrate(log *zap.Logger) {
	if err := DB.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		log.Error("failed to enable uuid-ossp", zap.Error(err))
	}

	if err := DB.AutoMigrate(
		&models.Profile{},
		&models.DailyLog{},
		&models.MealRecord{},
		&models.BurnTask{},
		&models.ChatMessage{},
	); err != nil {
		log.Error("Ошибка при миграции таблиц", zap.Error(err))
		os.Exit(1)
	}

	log.Info("Автомиграция таблиц завершена успешно")
}
