package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/Sahaji-2003/Food-Tracker/internal/ledger"
	"github.com/Sahaji-2003/Food-Tracker/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Журнал за дату, создаётся лениво с нулями
func GetDailyLog(db *gorm.DB, userID uuid.UUID, date time.Time) (*models.DailyLog, error) {
	if err := ledger.EnsureRow(db, userID, date); err != nil {
		return nil, fmt.Errorf("ensure daily log: %w", err)
	}
	var dl models.DailyLog
	if err := db.First(&dl, "user_id = ? AND date = ?", userID, date).Error; err != nil {
		return nil, fmt.Errorf("load daily log: %w", err)
	}
	return &dl, nil
}

// Сколько уже съедено за дату; 0 если журнала ещё нет.
// Читается до вызова модели и передаётся дальше, чтобы промпт и пересчёт
// excess_calories видели одно и то же значение.
func ConsumedCalories(db *gorm.DB, userID uuid.UUID, date time.Time) (int, error) {
	var dl models.DailyLog
	err := db.First(&dl, "user_id = ? AND date = ?", userID, date).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("load daily log: %w", err)
	}
	return dl.CaloriesIn, nil
}
