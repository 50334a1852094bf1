package jobs

import (
	"github.com/Sahaji-2003/Food-Tracker/internal/db"
	"github.com/Sahaji-2003/Food-Tracker/internal/models"
	"github.com/Sahaji-2003/Food-Tracker/internal/service"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const chatHistoryKeep = 20

// Фоновые задачи по расписанию
func Start(log *zap.Logger) *cron.Cron {
	c := cron.New()

	// Ночная подчистка историй чата до 20 последних сообщений на пользователя
	c.AddFunc("0 3 * * *", func() {
		log.Info("Запуск обрезки историй чата")
		TrimAllChatHistories(log)
	})

	c.Start()
	return c
}

// Обрезает историю каждого пользователя; ошибки по отдельным пользователям
// логируются и не прерывают обход.
func TrimAllChatHistories(log *zap.Logger) {
	var userIDs []uuid.UUID
	err := db.DB.Model(&models.ChatMessage{}).Distinct("user_id").Pluck("user_id", &userIDs).Error
	if err != nil {
		log.Error("Не удалось получить пользователей с историей чата", zap.Error(err))
		return
	}

	var total int64
	for _, id := range userIDs {
		removed, err := service.TrimChatHistory(db.DB, id, chatHistoryKeep)
		if err != nil {
			log.Warn("Не удалось обрезать историю чата",
				zap.String("user_id", id.String()), zap.Error(err))
			continue
		}
		total += removed
	}
	log.Info("Обрезка историй чата завершена",
		zap.Int("users", len(userIDs)), zap.Int64("removed", total))
}
