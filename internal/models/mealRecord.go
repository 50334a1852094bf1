package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	MealSourcePhoto = "photo"
	MealSourceText  = "text"
)

// Запись о проанализированном приёме пищи.
type MealRecord struct {
	ID          uuid.UUID `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UserID      uuid.UUID `gorm:"index;not null" json:"user_id"`
	FoodName    string    `gorm:"not null" json:"food_name"`
	Description string    `json:"image_description"` // описание фото либо исходный текст
	Ingredients string    `json:"ingredients"`       // список через запятую, как отдаёт модель
	Calories    int       `gorm:"not null" json:"calories"`
	Macros      datatypes.JSON `json:"macros"` // {"p":..,"c":..,"f":..} в граммах
	Items       datatypes.JSON `json:"items"`  // поэлементная разбивка блюда
	PlateGrade  string    `json:"plate_grade"` // A+ .. F
	Reasoning   string    `json:"reasoning"`
	Source      string    `gorm:"not null" json:"source"` // photo | text
	BurnTasks   []BurnTask `gorm:"foreignKey:MealID;constraint:OnDelete:CASCADE" json:"-"`
}

func (m *MealRecord) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return
}
