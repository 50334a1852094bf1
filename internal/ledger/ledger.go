// Package ledger поддерживает счётчики daily_logs согласованными при любых
// изменениях приёмов пищи и заданий. Каждая операция — один атомарный
// UPDATE по строке (user_id, date), никогда не read-modify-write:
// параллельные запросы иначе теряют обновления.
package ledger

import (
	"errors"
	"time"

	"github.com/Sahaji-2003/Food-Tracker/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Исчерпаны повторы атомарного обновления при конкурентной записи
var ErrLedgerConflict = errors.New("ledger: conflicting concurrent update")

const (
	maxAttempts  = 3
	retryBackoff = 15 * time.Millisecond
)

// Создание приёма пищи: calories_in += calories, строка журнала создаётся при необходимости.
func ApplyMealCreated(db *gorm.DB, log *zap.Logger, userID uuid.UUID, date time.Time, calories int) error {
	return increment(db, userID, date, "calories_in", calories)
}

// Удаление приёма пищи: calories_in уменьшается с отсечкой в ноль.
// Отсутствие строки журнала — не ошибка, нечего откатывать.
func CompensateMealDeleted(db *gorm.DB, log *zap.Logger, userID uuid.UUID, date time.Time, calories int) error {
	return clampedDecrement(db, log, userID, date, "calories_in", calories)
}

// Смена статуса задания. Повторная установка того же статуса — no-op (идемпотентность).
func ApplyTaskStatusChange(db *gorm.DB, log *zap.Logger, userID uuid.UUID, date time.Time, caloriesToBurn int, oldStatus, newStatus string) error {
	if oldStatus == newStatus {
		return nil
	}
	if newStatus == models.TaskStatusCompleted {
		return increment(db, userID, date, "calories_out", caloriesToBurn)
	}
	if oldStatus == models.TaskStatusCompleted {
		return clampedDecrement(db, log, userID, date, "calories_out", caloriesToBurn)
	}
	return nil
}

// Удаление задания: вычитаем calories_out только если задание было выполнено.
func CompensateTaskDeleted(db *gorm.DB, log *zap.Logger, userID uuid.UUID, date time.Time, caloriesToBurn int, status string) error {
	if status != models.TaskStatusCompleted {
		return nil
	}
	return clampedDecrement(db, log, userID, date, "calories_out", caloriesToBurn)
}

func AddWater(db *gorm.DB, log *zap.Logger, userID uuid.UUID, date time.Time, ml int) error {
	return increment(db, userID, date, "water_ml", ml)
}

func AddSteps(db *gorm.DB, log *zap.Logger, userID uuid.UUID, date time.Time, steps int) error {
	return increment(db, userID, date, "steps", steps)
}

func AddActiveMinutes(db *gorm.DB, log *zap.Logger, userID uuid.UUID, date time.Time, minutes int) error {
	return increment(db, userID, date, "active_minutes", minutes)
}

// Гарантирует существование строки журнала; гонку двух вставок гасит ON CONFLICT DO NOTHING
func EnsureRow(db *gorm.DB, userID uuid.UUID, date time.Time) error {
	row := models.DailyLog{UserID: userID, Date: date}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoNothing: true,
	}).Create(&row).Error
}

func increment(db *gorm.DB, userID uuid.UUID, date time.Time, column string, delta int) error {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(time.Duration(attempt) * retryBackoff)
		}
		res := db.Model(&models.DailyLog{}).
			Where("user_id = ? AND date = ?", userID, date).
			UpdateColumn(column, gorm.Expr(column+" + ?", delta))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		// Строки ещё нет — создаём и повторяем инкремент
		if err := EnsureRow(db, userID, date); err != nil {
			return err
		}
	}
	return ErrLedgerConflict
}

// Уменьшение счётчика с отсечкой в ноль: счётчики видны пользователю
// и не должны уходить в минус даже при гонке компенсаций.
// CASE вместо GREATEST — работает и на Postgres, и на sqlite в тестах.
func clampedDecrement(db *gorm.DB, log *zap.Logger, userID uuid.UUID, date time.Time, column string, delta int) error {
	res := db.Model(&models.DailyLog{}).
		Where("user_id = ? AND date = ?", userID, date).
		UpdateColumn(column, gorm.Expr(
			"CASE WHEN "+column+" < ? THEN 0 ELSE "+column+" - ? END", delta, delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		log.Warn("Компенсация без строки журнала — пропускаем",
			zap.String("user_id", userID.String()),
			zap.Time("date", date),
			zap.String("column", column),
			zap.Int("delta", delta))
	}
	return nil
}
