package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Sahaji-2003/Food-Tracker/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var emptyList = datatypes.JSON([]byte("[]"))

// Профиль создаётся лениво с дефолтами при первом обращении
func GetProfile(db *gorm.DB, userID uuid.UUID) (*models.Profile, error) {
	var p models.Profile
	err := db.First(&p, "id = ?", userID).Error
	if err == nil {
		return &p, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	p = models.Profile{
		ID:                 userID,
		MedicalConditions:  emptyList,
		Allergies:          emptyList,
		Preferences:        emptyList,
		PreferredTasks:     emptyList,
		DailyCalorieTarget: models.DefaultCalorieTarget,
		DailyWaterTarget:   models.DefaultWaterTarget,
	}
	// Гонка двух первых обращений гасится ON CONFLICT DO NOTHING
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&p).Error; err != nil {
		return nil, fmt.Errorf("create default profile: %w", err)
	}
	if err := db.First(&p, "id = ?", userID).Error; err != nil {
		return nil, fmt.Errorf("reload profile: %w", err)
	}
	return &p, nil
}

type ProfileUpdate struct {
	Age                *int     `json:"age"`
	Gender             *string  `json:"gender"`
	Weight             *float64 `json:"weight"`
	Height             *float64 `json:"height"`
	TargetGoal         *string  `json:"target_goal"`
	MedicalConditions  []string `json:"medical_conditions"`
	Allergies          []string `json:"allergies"`
	Preferences        []string `json:"preferences"`
	PreferredTasks     []string `json:"preferred_tasks"`
	DailyCalorieTarget *int     `json:"daily_calorie_target"`
	DailyWaterTarget   *int     `json:"daily_water_target"`
}

// Частичное обновление: nil-поля не трогаем
func UpdateProfile(db *gorm.DB, userID uuid.UUID, in ProfileUpdate) (*models.Profile, error) {
	p, err := GetProfile(db, userID)
	if err != nil {
		return nil, err
	}

	if in.Age != nil {
		p.Age = *in.Age
	}
	if in.Gender != nil {
		p.Gender = *in.Gender
	}
	if in.Weight != nil {
		p.Weight = *in.Weight
	}
	if in.Height != nil {
		p.Height = *in.Height
	}
	if in.TargetGoal != nil {
		p.TargetGoal = *in.TargetGoal
	}
	if in.MedicalConditions != nil {
		p.MedicalConditions = mustJSONList(in.MedicalConditions)
	}
	if in.Allergies != nil {
		p.Allergies = mustJSONList(in.Allergies)
	}
	if in.Preferences != nil {
		p.Preferences = mustJSONList(in.Preferences)
	}
	if in.PreferredTasks != nil {
		p.PreferredTasks = mustJSONList(in.PreferredTasks)
	}
	if in.DailyCalorieTarget != nil {
		p.DailyCalorieTarget = *in.DailyCalorieTarget
	}
	if in.DailyWaterTarget != nil {
		p.DailyWaterTarget = *in.DailyWaterTarget
	}

	if err := db.Save(p).Error; err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return p, nil
}

func mustJSONList(list []string) datatypes.JSON {
	data, err := json.Marshal(list)
	if err != nil {
		return emptyList
	}
	return datatypes.JSON(data)
}
