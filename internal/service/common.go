package service

import (
	"errors"

	"github.com/Sahaji-2003/Food-Tracker/internal/gemini"
	"github.com/Sahaji-2003/Food-Tracker/internal/models"
	"github.com/Sahaji-2003/Food-Tracker/internal/utils"
)

var (
	// Запись отсутствует либо принадлежит другому пользователю
	ErrNotFound = errors.New("record not found")
	// Недопустимое значение статуса задания
	ErrInvalidStatus = errors.New("invalid task status")
)

// datatypes.JSON → []string, мусор молча превращается в пустой список
func jsonList(data []byte) []string {
	var list []string
	if len(data) == 0 {
		return list
	}
	_ = utils.UnmarshalJSON([]byte(data), &list)
	return list
}

// Контекст профиля для промптов Gemini
func ProfileContext(p *models.Profile) gemini.ProfileContext {
	return gemini.ProfileContext{
		Gender:         p.Gender,
		Age:            p.Age,
		Height:         p.Height,
		Weight:         p.Weight,
		CalorieTarget:  p.DailyCalorieTarget,
		TargetGoal:     p.TargetGoal,
		Allergies:      jsonList(p.Allergies),
		Conditions:     jsonList(p.MedicalConditions),
		Preferences:    jsonList(p.Preferences),
		PreferredTasks: jsonList(p.PreferredTasks),
	}
}
