package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Sahaji-2003/Food-Tracker/internal/analysis"
	"github.com/Sahaji-2003/Food-Tracker/internal/ledger"
	"github.com/Sahaji-2003/Food-Tracker/internal/models"
	"github.com/Sahaji-2003/Food-Tracker/internal/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AnalysisResult struct {
	Analysis analysis.MealAnalysis `json:"analysis"`
	Meal     models.MealRecord     `json:"meal"`
	Tasks    []models.BurnTask     `json:"created_tasks"`
}

// Приём сырого ответа модели: нормализация, запись приёма пищи, журнал, задания.
// Если после записи приёма пищи не удалось создать часть заданий, это не откатывается:
// приём уже учтён, недостающие задания — восстановимая рассинхронизация, а не фатал.
func RecordMealAnalysis(db *gorm.DB, log *zap.Logger, userID uuid.UUID, rawAnswer, source string, profile *models.Profile, caloriesConsumed int, now time.Time) (*AnalysisResult, error) {
	raw, err := analysis.Parse(rawAnswer)
	if err != nil {
		return nil, err
	}
	norm := analysis.Normalize(raw, profile.DailyCalorieTarget, caloriesConsumed)
	date := utils.DayOf(now)

	meal := models.MealRecord{
		UserID:      userID,
		FoodName:    norm.Food,
		Description: norm.ImageDescription,
		Ingredients: norm.Ingredients,
		Calories:    norm.TotalCalories,
		Macros:      mustJSON(norm.Macros),
		Items:       mustJSON(norm.Items),
		PlateGrade:  norm.PlateGrade,
		Reasoning:   norm.Reasoning,
		Source:      source,
	}
	if err := db.Create(&meal).Error; err != nil {
		return nil, fmt.Errorf("save meal: %w", err)
	}

	if err := ledger.ApplyMealCreated(db, log, userID, date, norm.TotalCalories); err != nil {
		return nil, fmt.Errorf("apply meal to ledger: %w", err)
	}

	tasks := analysis.GenerateTasks(norm.ExcessCalories, jsonList(profile.PreferredTasks), norm.Tasks)
	created := make([]models.BurnTask, 0, len(tasks))
	for i := range tasks {
		tasks[i].UserID = userID
		tasks[i].MealID = meal.ID
		tasks[i].Date = date
		if err := db.Create(&tasks[i]).Error; err != nil {
			log.Error("Не удалось сохранить задание, продолжаем",
				zap.String("meal_id", meal.ID.String()), zap.Error(err))
			continue
		}
		created = append(created, tasks[i])
	}

	return &AnalysisResult{Analysis: norm, Meal: meal, Tasks: created}, nil
}

// История приёмов пищи; recentOnly — только сегодня и вчера
func MealHistory(db *gorm.DB, userID uuid.UUID, limit, offset int, recentOnly bool) ([]models.MealRecord, error) {
	q := db.Where("user_id = ?", userID)
	if recentOnly {
		q = q.Where("created_at >= ?", utils.Yesterday())
	}
	var meals []models.MealRecord
	if err := q.Order("created_at desc").Limit(limit).Offset(offset).Find(&meals).Error; err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}
	return meals, nil
}

// Приём пищи с его заданиями
func MealDetail(db *gorm.DB, userID, mealID uuid.UUID) (*models.MealRecord, []models.BurnTask, error) {
	meal, err := loadMeal(db, userID, mealID)
	if err != nil {
		return nil, nil, err
	}
	var tasks []models.BurnTask
	if err := db.Where("meal_id = ?", mealID).Order("created_at").Find(&tasks).Error; err != nil {
		return nil, nil, fmt.Errorf("list meal tasks: %w", err)
	}
	return meal, tasks, nil
}

// Удаление приёма пищи: компенсация calories_in, затем каскад по заданиям —
// выполненные компенсируют calories_out перед удалением, иначе журнал разъедется.
func DeleteMeal(db *gorm.DB, log *zap.Logger, userID, mealID uuid.UUID) (int, error) {
	meal, err := loadMeal(db, userID, mealID)
	if err != nil {
		return 0, err
	}
	date := utils.DayOf(meal.CreatedAt)

	if err := ledger.CompensateMealDeleted(db, log, userID, date, meal.Calories); err != nil {
		return 0, fmt.Errorf("compensate meal: %w", err)
	}

	var tasks []models.BurnTask
	if err := db.Where("meal_id = ?", mealID).Find(&tasks).Error; err != nil {
		return 0, fmt.Errorf("list meal tasks: %w", err)
	}
	for _, t := range tasks {
		if err := ledger.CompensateTaskDeleted(db, log, userID, t.Date, t.CaloriesToBurn, t.Status); err != nil {
			return 0, fmt.Errorf("compensate task %s: %w", t.ID, err)
		}
	}

	if err := db.Where("meal_id = ?", mealID).Delete(&models.BurnTask{}).Error; err != nil {
		return 0, fmt.Errorf("delete meal tasks: %w", err)
	}
	if err := db.Delete(&models.MealRecord{}, "id = ?", mealID).Error; err != nil {
		return 0, fmt.Errorf("delete meal: %w", err)
	}
	return meal.Calories, nil
}

func loadMeal(db *gorm.DB, userID, mealID uuid.UUID) (*models.MealRecord, error) {
	var meal models.MealRecord
	err := db.First(&meal, "id = ? AND user_id = ?", mealID, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load meal: %w", err)
	}
	return &meal, nil
}

func mustJSON(v interface{}) datatypes.JSON {
	data, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON([]byte("null"))
	}
	return datatypes.JSON(data)
}
