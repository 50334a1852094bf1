package service_test

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/Sahaji-2003/Food-Tracker/internal/analysis"
	"github.com/Sahaji-2003/Food-Tracker/internal/ledger"
	"github.com/Sahaji-2003/Food-Tracker/internal/models"
	"github.com/Sahaji-2003/Food-Tracker/internal/service"
	"github.com/Sahaji-2003/Food-Tracker/internal/utils"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const sampleAnswer = "```json\n" + `{
  "food": "Chicken Biryani",
  "image_description": "A plate of biryani with raita",
  "ingredients": "rice, chicken, spices, yogurt",
  "total_calories": 900,
  "macros": {"p": 35, "c": 110, "f": 30},
  "items": [
    {"name": "Biryani", "calories": 780, "quantity": "1 plate"},
    {"name": "Raita", "calories": 120, "quantity": "1 bowl"}
  ],
  "plate_grade": "B",
  "reasoning": "Balanced but calorie dense",
  "excess_calories": 9999,
  "tasks": [
    {"type": "walking", "name": "Brisk walk", "duration_minutes": 40, "calories_to_burn": 200, "description": "Walk at a brisk pace"},
    {"type": "cycling", "name": "Evening ride", "duration_minutes": 30, "calories_to_burn": 150, "description": "Light cycling"}
  ]
}` + "\n```"

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fitflow.db")
	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("unwrap db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := gdb.AutoMigrate(
		&models.Profile{}, &models.DailyLog{}, &models.MealRecord{},
		&models.BurnTask{}, &models.ChatMessage{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

func walkingProfile(target int) *models.Profile {
	return &models.Profile{
		DailyCalorieTarget: target,
		PreferredTasks:     datatypes.JSON([]byte(`["walking"]`)),
	}
}

func caloriesIn(t *testing.T, db *gorm.DB, userID uuid.UUID, date time.Time) int {
	t.Helper()
	var dl models.DailyLog
	if err := db.First(&dl, "user_id = ? AND date = ?", userID, date).Error; err != nil {
		t.Fatalf("load daily log: %v", err)
	}
	return dl.CaloriesIn
}

func caloriesOut(t *testing.T, db *gorm.DB, userID uuid.UUID, date time.Time) int {
	t.Helper()
	var dl models.DailyLog
	if err := db.First(&dl, "user_id = ? AND date = ?", userID, date).Error; err != nil {
		t.Fatalf("load daily log: %v", err)
	}
	return dl.CaloriesOut
}

func TestRecordMealAnalysis(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	log := zap.NewNop()
	userID := uuid.New()
	now := time.Date(2026, 3, 14, 13, 30, 0, 0, time.UTC)
	date := utils.DayOf(now)

	res, err := service.RecordMealAnalysis(db, log, userID, sampleAnswer,
		models.MealSourcePhoto, walkingProfile(2000), 1500, now)
	if err != nil {
		t.Fatalf("record meal: %v", err)
	}

	// Перебор пересчитан локально: 1500 + 900 - 2000, а не 9999 из ответа модели
	if res.Analysis.ExcessCalories != 400 {
		t.Fatalf("expected excess 400, got %d", res.Analysis.ExcessCalories)
	}

	var meal models.MealRecord
	if err := db.First(&meal, "user_id = ?", userID).Error; err != nil {
		t.Fatalf("load meal: %v", err)
	}
	if meal.FoodName != "Chicken Biryani" || meal.Calories != 900 || meal.Source != models.MealSourcePhoto {
		t.Fatalf("unexpected meal: %+v", meal)
	}

	if got := caloriesIn(t, db, userID, date); got != 900 {
		t.Fatalf("expected calories_in 900, got %d", got)
	}

	// Непредпочтённое cycling отброшено, walking сохранено как pending
	if len(res.Tasks) != 1 {
		t.Fatalf("expected 1 created task, got %d", len(res.Tasks))
	}
	task := res.Tasks[0]
	if task.TaskType != models.TaskTypeWalking || task.CaloriesToBurn != 200 ||
		task.Status != models.TaskStatusPending {
		t.Fatalf("unexpected task: %+v", task)
	}
	if task.UserID != userID || task.MealID != meal.ID || !task.Date.Equal(date) {
		t.Fatalf("task not bound to meal/user/date: %+v", task)
	}
}

func TestRecordMealAnalysisNoExcessNoTasks(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	log := zap.NewNop()
	userID := uuid.New()
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	// 500 съедено + 900 приём < 2000 цели — заданий нет
	res, err := service.RecordMealAnalysis(db, log, userID, sampleAnswer,
		models.MealSourceText, walkingProfile(2000), 500, now)
	if err != nil {
		t.Fatalf("record meal: %v", err)
	}
	if res.Analysis.ExcessCalories != 0 {
		t.Fatalf("expected zero excess, got %d", res.Analysis.ExcessCalories)
	}
	if len(res.Tasks) != 0 {
		t.Fatalf("expected no tasks, got %d", len(res.Tasks))
	}
}

func TestRecordMealAnalysisMalformed(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	log := zap.NewNop()
	userID := uuid.New()

	_, err := service.RecordMealAnalysis(db, log, userID, "I could not analyze this image",
		models.MealSourcePhoto, walkingProfile(2000), 0, time.Now())
	if !errors.Is(err, analysis.ErrMalformedAnalysis) {
		t.Fatalf("expected malformed analysis error, got %v", err)
	}

	// Ничего не записано
	var count int64
	if err := db.Model(&models.MealRecord{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		t.Fatalf("count meals: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no meals, got %d", count)
	}
}

func TestTaskLifecycleUpdatesLedger(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	log := zap.NewNop()
	userID := uuid.New()
	now := time.Date(2026, 3, 14, 14, 0, 0, 0, time.UTC)
	date := utils.DayOf(now)

	res, err := service.RecordMealAnalysis(db, log, userID, sampleAnswer,
		models.MealSourcePhoto, walkingProfile(2000), 1500, now)
	if err != nil {
		t.Fatalf("record meal: %v", err)
	}
	taskID := res.Tasks[0].ID

	task, err := service.SetTaskStatus(db, log, userID, taskID, models.TaskStatusCompleted, now)
	if err != nil {
		t.Fatalf("complete task: %v", err)
	}
	if task.CompletedAt == nil {
		t.Fatal("expected completed_at to be set")
	}
	if got := caloriesOut(t, db, userID, date); got != 200 {
		t.Fatalf("expected calories_out 200, got %d", got)
	}

	// Повторное completed — no-op
	if _, err := service.SetTaskStatus(db, log, userID, taskID, models.TaskStatusCompleted, now); err != nil {
		t.Fatalf("repeat complete: %v", err)
	}
	if got := caloriesOut(t, db, userID, date); got != 200 {
		t.Fatalf("expected calories_out unchanged, got %d", got)
	}

	// Откат в pending возвращает вклад
	task, err = service.SetTaskStatus(db, log, userID, taskID, models.TaskStatusPending, now)
	if err != nil {
		t.Fatalf("revert task: %v", err)
	}
	if task.CompletedAt != nil {
		t.Fatal("expected completed_at cleared")
	}
	if got := caloriesOut(t, db, userID, date); got != 0 {
		t.Fatalf("expected calories_out 0, got %d", got)
	}
}

func TestSetTaskStatusInvalid(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	log := zap.NewNop()

	_, err := service.SetTaskStatus(db, log, uuid.New(), uuid.New(), "done", time.Now())
	if !errors.Is(err, service.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestDeleteMealCompensatesCascade(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	log := zap.NewNop()
	userID := uuid.New()
	now := time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC)
	date := utils.DayOf(now)

	res, err := service.RecordMealAnalysis(db, log, userID, sampleAnswer,
		models.MealSourcePhoto, walkingProfile(2000), 1500, now)
	if err != nil {
		t.Fatalf("record meal: %v", err)
	}
	if _, err := service.SetTaskStatus(db, log, userID, res.Tasks[0].ID, models.TaskStatusCompleted, now); err != nil {
		t.Fatalf("complete task: %v", err)
	}

	// Запись создавалась "сейчас": created_at близок к now, дата журнала совпадает
	removed, err := service.DeleteMeal(db, log, userID, res.Meal.ID)
	if err != nil {
		t.Fatalf("delete meal: %v", err)
	}
	if removed != 900 {
		t.Fatalf("expected 900 calories removed, got %d", removed)
	}

	if got := caloriesIn(t, db, userID, date); got != 0 {
		t.Fatalf("expected calories_in 0 after delete, got %d", got)
	}
	if got := caloriesOut(t, db, userID, date); got != 0 {
		t.Fatalf("expected calories_out 0 after cascade, got %d", got)
	}

	var taskCount int64
	if err := db.Model(&models.BurnTask{}).Where("meal_id = ?", res.Meal.ID).Count(&taskCount).Error; err != nil {
		t.Fatalf("count tasks: %v", err)
	}
	if taskCount != 0 {
		t.Fatalf("expected tasks deleted, got %d", taskCount)
	}
	if _, _, err := service.MealDetail(db, userID, res.Meal.ID); !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestOwnershipIsolation(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	log := zap.NewNop()
	owner := uuid.New()
	intruder := uuid.New()
	now := time.Now().UTC()

	res, err := service.RecordMealAnalysis(db, log, owner, sampleAnswer,
		models.MealSourcePhoto, walkingProfile(2000), 1500, now)
	if err != nil {
		t.Fatalf("record meal: %v", err)
	}

	if _, _, err := service.MealDetail(db, intruder, res.Meal.ID); !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign meal, got %v", err)
	}
	if _, err := service.DeleteMeal(db, log, intruder, res.Meal.ID); !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on foreign delete, got %v", err)
	}
	if _, err := service.SetTaskStatus(db, log, intruder, res.Tasks[0].ID, models.TaskStatusCompleted, now); !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign task, got %v", err)
	}
	if err := service.DeleteTask(db, log, intruder, res.Tasks[0].ID); !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on foreign task delete, got %v", err)
	}
}

func TestGetProfileLazyDefaults(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	userID := uuid.New()

	p, err := service.GetProfile(db, userID)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if p.ID != userID {
		t.Fatalf("expected profile id %s, got %s", userID, p.ID)
	}
	if p.DailyCalorieTarget != models.DefaultCalorieTarget || p.DailyWaterTarget != models.DefaultWaterTarget {
		t.Fatalf("expected default targets, got %d/%d", p.DailyCalorieTarget, p.DailyWaterTarget)
	}

	// Повторное обращение возвращает ту же строку, не создаёт вторую
	again, err := service.GetProfile(db, userID)
	if err != nil {
		t.Fatalf("get profile again: %v", err)
	}
	if again.ID != p.ID {
		t.Fatalf("expected same profile, got %s and %s", p.ID, again.ID)
	}
}

func TestUpdateProfilePartial(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	userID := uuid.New()

	target := 1800
	weight := 82.5
	p, err := service.UpdateProfile(db, userID, service.ProfileUpdate{
		DailyCalorieTarget: &target,
		Weight:             &weight,
		PreferredTasks:     []string{"running", "swimming"},
	})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if p.DailyCalorieTarget != 1800 || p.Weight != 82.5 {
		t.Fatalf("unexpected profile: %+v", p)
	}
	// Нетронутые поля остаются дефолтными
	if p.DailyWaterTarget != models.DefaultWaterTarget {
		t.Fatalf("expected untouched water target, got %d", p.DailyWaterTarget)
	}
	if string(p.PreferredTasks) != `["running","swimming"]` {
		t.Fatalf("unexpected preferred tasks: %s", p.PreferredTasks)
	}
}

func TestGetDailyLogLazyCreation(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	userID := uuid.New()
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	dl, err := service.GetDailyLog(db, userID, date)
	if err != nil {
		t.Fatalf("get daily log: %v", err)
	}
	if dl.CaloriesIn != 0 || dl.CaloriesOut != 0 || dl.WaterML != 0 {
		t.Fatalf("expected zeroed log, got %+v", dl)
	}

	consumed, err := service.ConsumedCalories(db, userID, date)
	if err != nil {
		t.Fatalf("consumed calories: %v", err)
	}
	if consumed != 0 {
		t.Fatalf("expected 0 consumed, got %d", consumed)
	}

	if err := ledger.ApplyMealCreated(db, zap.NewNop(), userID, date, 350); err != nil {
		t.Fatalf("apply meal: %v", err)
	}
	consumed, err = service.ConsumedCalories(db, userID, date)
	if err != nil {
		t.Fatalf("consumed calories: %v", err)
	}
	if consumed != 350 {
		t.Fatalf("expected 350 consumed, got %d", consumed)
	}
}

func TestListTasksWindows(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	userID := uuid.New()
	mealID := uuid.New()

	mk := func(status string, createdAt time.Time) {
		t.Helper()
		task := models.BurnTask{
			UserID:         userID,
			MealID:         mealID,
			TaskType:       models.TaskTypeWalking,
			Name:           "Walk",
			CaloriesToBurn: 100,
			Status:         status,
			Date:           utils.DayOf(createdAt),
			CreatedAt:      createdAt,
		}
		if err := db.Create(&task).Error; err != nil {
			t.Fatalf("create task: %v", err)
		}
	}

	mk(models.TaskStatusPending, utils.Today().Add(2*time.Hour))      // сегодня
	mk(models.TaskStatusPending, utils.Yesterday().Add(3*time.Hour))  // вчера — виден
	mk(models.TaskStatusPending, utils.Yesterday().Add(-2*time.Hour)) // позавчера — скрыт
	mk(models.TaskStatusCompleted, utils.Today().Add(time.Hour))      // сегодня — виден
	mk(models.TaskStatusCompleted, utils.Yesterday().Add(time.Hour))  // вчера — скрыт

	all, err := service.ListTasks(db, userID, "")
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 visible tasks, got %d", len(all))
	}

	pending, err := service.ListTasks(db, userID, models.TaskStatusPending)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending tasks, got %d", len(pending))
	}

	completed, err := service.ListTasks(db, userID, models.TaskStatusCompleted)
	if err != nil {
		t.Fatalf("list completed: %v", err)
	}
	if len(completed) != 1 {
		t.Fatalf("expected 1 completed task, got %d", len(completed))
	}
}

func TestMealHistoryRecentOnly(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	userID := uuid.New()

	mk := func(name string, createdAt time.Time) {
		t.Helper()
		meal := models.MealRecord{
			UserID:    userID,
			FoodName:  name,
			Calories:  300,
			Source:    models.MealSourceText,
			CreatedAt: createdAt,
		}
		if err := db.Create(&meal).Error; err != nil {
			t.Fatalf("create meal: %v", err)
		}
	}
	mk("today", utils.Today().Add(time.Hour))
	mk("yesterday", utils.Yesterday().Add(time.Hour))
	mk("old", utils.Yesterday().Add(-time.Hour))

	recent, err := service.MealHistory(db, userID, 50, 0, true)
	if err != nil {
		t.Fatalf("meal history: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 recent meals, got %d", len(recent))
	}

	all, err := service.MealHistory(db, userID, 50, 0, false)
	if err != nil {
		t.Fatalf("meal history all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 meals, got %d", len(all))
	}
	// Сортировка от новых к старым
	if all[0].FoodName != "today" || all[2].FoodName != "old" {
		t.Fatalf("unexpected order: %s .. %s", all[0].FoodName, all[2].FoodName)
	}
}

func TestTrimChatHistoryKeepsLatest(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	userID := uuid.New()
	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 25; i++ {
		msg := models.ChatMessage{
			UserID:    userID,
			Role:      models.ChatRoleUser,
			Content:   fmt.Sprintf("message %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := db.Create(&msg).Error; err != nil {
			t.Fatalf("create message: %v", err)
		}
	}

	removed, err := service.TrimChatHistory(db, userID, 20)
	if err != nil {
		t.Fatalf("trim history: %v", err)
	}
	if removed != 5 {
		t.Fatalf("expected 5 removed, got %d", removed)
	}

	msgs, err := service.ChatHistory(db, userID, 50)
	if err != nil {
		t.Fatalf("chat history: %v", err)
	}
	if len(msgs) != 20 {
		t.Fatalf("expected 20 kept, got %d", len(msgs))
	}
	// Удалены самые старые, порядок хронологический
	if msgs[0].Content != "message 5" || msgs[19].Content != "message 24" {
		t.Fatalf("unexpected window: %s .. %s", msgs[0].Content, msgs[19].Content)
	}
}

func TestClearChatHistory(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	userID := uuid.New()
	other := uuid.New()

	for _, uid := range []uuid.UUID{userID, other} {
		msg := models.ChatMessage{UserID: uid, Role: models.ChatRoleUser, Content: "hi"}
		if err := db.Create(&msg).Error; err != nil {
			t.Fatalf("create message: %v", err)
		}
	}

	if err := service.ClearChatHistory(db, userID); err != nil {
		t.Fatalf("clear history: %v", err)
	}

	mine, err := service.ChatHistory(db, userID, 50)
	if err != nil {
		t.Fatalf("chat history: %v", err)
	}
	if len(mine) != 0 {
		t.Fatalf("expected empty history, got %d", len(mine))
	}
	theirs, err := service.ChatHistory(db, other, 50)
	if err != nil {
		t.Fatalf("chat history other: %v", err)
	}
	if len(theirs) != 1 {
		t.Fatalf("expected other user untouched, got %d", len(theirs))
	}
}
