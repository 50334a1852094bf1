package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TaskStatusPending   = "pending"
	TaskStatusCompleted = "completed"
)

const (
	TaskTypeWalking  = "walking"
	TaskTypeRunning  = "running"
	TaskTypeSwimming = "swimming"
	TaskTypeGym      = "gym"
	TaskTypeYoga     = "yoga"
	TaskTypeCycling  = "cycling"
	TaskTypeHIIT     = "hiit"
)

// Задание на сжигание калорий. Всегда создаётся от приёма пищи (MealID),
// CaloriesToBurn фиксируется при создании и больше не пересчитывается.
type BurnTask struct {
	ID              uuid.UUID  `gorm:"primaryKey" json:"id"`
	CreatedAt       time.Time  `gorm:"index" json:"created_at"`
	UserID          uuid.UUID  `gorm:"index;not null" json:"user_id"`
	MealID          uuid.UUID  `gorm:"index;not null" json:"meal_id"`
	TaskType        string     `gorm:"not null" json:"task_type"`
	Name            string     `gorm:"not null" json:"name"`
	Description     string     `json:"description"` // инструкция в markdown
	DurationMinutes int        `json:"duration_minutes"`
	CaloriesToBurn  int        `gorm:"not null" json:"calories_to_burn"`
	DistanceKm      *float64   `json:"distance_km,omitempty"`
	Steps           *int       `json:"steps,omitempty"`
	Status          string     `gorm:"not null;default:pending;index" json:"status"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	Date            time.Time  `gorm:"type:date;index;not null" json:"date"`
}

func (t *BurnTask) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return
}

// Допустимые типы активности из промпта анализа
func ValidTaskType(t string) bool {
	switch t {
	case TaskTypeWalking, TaskTypeRunning, TaskTypeSwimming, TaskTypeGym, TaskTypeYoga, TaskTypeCycling, TaskTypeHIIT:
		return true
	}
	return false
}
