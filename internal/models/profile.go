package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	DefaultCalorieTarget = 2000
	DefaultWaterTarget   = 2500
)

// Профиль пользователя. ID совпадает с идентификатором из Supabase Auth,
// поэтому BeforeCreate здесь не нужен — id всегда задаёт вызывающий.
type Profile struct {
	ID                uuid.UUID `gorm:"primaryKey" json:"id"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
	Age               int       `json:"age"`
	Gender            string    `json:"gender"`
	Weight            float64   `json:"weight"` // кг
	Height            float64   `json:"height"` // см
	TargetGoal        string    `json:"target_goal"`
	MedicalConditions datatypes.JSON `json:"medical_conditions"` // JSON массив строк
	Allergies         datatypes.JSON `json:"allergies"`
	Preferences       datatypes.JSON `json:"preferences"`
	PreferredTasks    datatypes.JSON `json:"preferred_tasks"` // порядок важен
	DailyCalorieTarget int      `gorm:"default:2000" json:"daily_calorie_target"`
	DailyWaterTarget   int      `gorm:"default:2500" json:"daily_water_target"`
}
