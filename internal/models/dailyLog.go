package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Дневной журнал: одна строка на пользователя и дату.
// Счётчики только неотрицательные, обновляются атомарными инкрементами (см. internal/ledger).
type DailyLog struct {
	ID            uuid.UUID `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	UserID        uuid.UUID `gorm:"not null;uniqueIndex:uidx_daily_user_date" json:"user_id"`
	Date          time.Time `gorm:"type:date;not null;uniqueIndex:uidx_daily_user_date" json:"date"`
	CaloriesIn    int       `gorm:"not null;default:0" json:"calories_in"`
	CaloriesOut   int       `gorm:"not null;default:0" json:"calories_out"`
	WaterML       int       `gorm:"not null;default:0" json:"water_ml"`
	Steps         int       `gorm:"not null;default:0" json:"steps"`
	ActiveMinutes int       `gorm:"not null;default:0" json:"active_minutes"`
}

func (d *DailyLog) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return
}
