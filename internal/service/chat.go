package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Sahaji-2003/Food-Tracker/internal/gemini"
	"github.com/Sahaji-2003/Food-Tracker/internal/models"
	"github.com/Sahaji-2003/Food-Tracker/internal/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	chatHistoryKeep    = 20
	chatContextMsgs    = 10
	chatContextMeals   = 15
	chatContextDaysAgo = 3
)

// Чат с ассистентом: контекст из профиля, журнала и недавних приёмов пищи,
// история диалога из БД, ответ Gemini, оба сообщения сохраняются.
func ChatWithBuddy(ctx context.Context, db *gorm.DB, log *zap.Logger, gc *gemini.Client, userID uuid.UUID, message string) (string, error) {
	profile, err := GetProfile(db, userID)
	if err != nil {
		return "", err
	}

	var dl models.DailyLog
	if err := db.First(&dl, "user_id = ? AND date = ?", userID, utils.Today()).Error; err != nil {
		dl = models.DailyLog{} // журнала ещё нет — нули
	}

	var meals []models.MealRecord
	since := utils.Today().AddDate(0, 0, -chatContextDaysAgo)
	if err := db.Where("user_id = ? AND created_at >= ?", userID, since).
		Order("created_at desc").Limit(chatContextMeals).Find(&meals).Error; err != nil {
		return "", fmt.Errorf("list recent meals: %w", err)
	}

	var history []models.ChatMessage
	if err := db.Where("user_id = ?", userID).
		Order("created_at desc").Limit(chatContextMsgs).Find(&history).Error; err != nil {
		return "", fmt.Errorf("load chat history: %w", err)
	}
	// В хронологический порядок
	for i, j := 0, len(history)-1; i < j; i, j = i+1, j-1 {
		history[i], history[j] = history[j], history[i]
	}

	system := BuildSystemContext(profile, &dl, meals)
	reply, err := gc.Chat(ctx, system, history, message)
	if err != nil {
		return "", fmt.Errorf("chat with gemini: %w", err)
	}

	if err := db.Create(&models.ChatMessage{UserID: userID, Role: models.ChatRoleUser, Content: message}).Error; err != nil {
		return "", fmt.Errorf("save user message: %w", err)
	}
	if err := db.Create(&models.ChatMessage{UserID: userID, Role: models.ChatRoleAssistant, Content: reply}).Error; err != nil {
		return "", fmt.Errorf("save assistant message: %w", err)
	}

	// Обрезка истории best-effort: неудача логируется, ответ пользователю не страдает
	if removed, err := TrimChatHistory(db, userID, chatHistoryKeep); err != nil {
		log.Warn("Не удалось обрезать историю чата", zap.Error(err))
	} else if removed > 0 {
		log.Info("История чата обрезана", zap.Int64("removed", removed))
	}

	return reply, nil
}

// История чата в хронологическом порядке
func ChatHistory(db *gorm.DB, userID uuid.UUID, limit int) ([]models.ChatMessage, error) {
	var msgs []models.ChatMessage
	if err := db.Where("user_id = ?", userID).
		Order("created_at desc").Limit(limit).Find(&msgs).Error; err != nil {
		return nil, fmt.Errorf("load chat history: %w", err)
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

func ClearChatHistory(db *gorm.DB, userID uuid.UUID) error {
	if err := db.Where("user_id = ?", userID).Delete(&models.ChatMessage{}).Error; err != nil {
		return fmt.Errorf("clear chat history: %w", err)
	}
	return nil
}

// Оставляет keep последних сообщений пользователя, возвращает число удалённых
func TrimChatHistory(db *gorm.DB, userID uuid.UUID, keep int) (int64, error) {
	sub := db.Model(&models.ChatMessage{}).Select("id").
		Where("user_id = ?", userID).
		Order("created_at desc").Limit(keep)
	res := db.Where("user_id = ? AND id NOT IN (?)", userID, sub).Delete(&models.ChatMessage{})
	if res.Error != nil {
		return 0, fmt.Errorf("trim chat history: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// Системный контекст ассистента из профиля, прогресса за день и недавних приёмов пищи
func BuildSystemContext(p *models.Profile, dl *models.DailyLog, meals []models.MealRecord) string {
	var b strings.Builder

	b.WriteString("You are Fit Buddy, a friendly and knowledgeable AI health and nutrition assistant.\n")
	b.WriteString("You help users with their health and fitness goals by providing personalized advice based on their profile and eating habits.\n\n")

	b.WriteString("## User Profile\n")
	fmt.Fprintf(&b, "- Age: %d\n", p.Age)
	fmt.Fprintf(&b, "- Gender: %s\n", orDash(p.Gender))
	fmt.Fprintf(&b, "- Weight: %.0f kg\n", p.Weight)
	fmt.Fprintf(&b, "- Height: %.0f cm\n", p.Height)
	fmt.Fprintf(&b, "- Goal: %s\n", orDash(p.TargetGoal))
	fmt.Fprintf(&b, "- Daily Calorie Target: %d cal\n", p.DailyCalorieTarget)
	fmt.Fprintf(&b, "- Medical Conditions: %s\n", utils.JoinOr(jsonList(p.MedicalConditions), "None"))
	fmt.Fprintf(&b, "- Allergies: %s\n", utils.JoinOr(jsonList(p.Allergies), "None"))
	fmt.Fprintf(&b, "- Dietary Preferences: %s\n", utils.JoinOr(jsonList(p.Preferences), "None"))
	fmt.Fprintf(&b, "- Preferred Activities: %s\n\n", utils.JoinOr(jsonList(p.PreferredTasks), "Walking"))

	b.WriteString("## Today's Progress\n")
	fmt.Fprintf(&b, "- Calories Consumed: %d cal\n", dl.CaloriesIn)
	fmt.Fprintf(&b, "- Calories Burned: %d cal\n", dl.CaloriesOut)
	fmt.Fprintf(&b, "- Net Calories: %d cal\n", dl.CaloriesIn-dl.CaloriesOut)
	fmt.Fprintf(&b, "- Water Intake: %d ml\n", dl.WaterML)
	fmt.Fprintf(&b, "- Steps: %d\n", dl.Steps)
	fmt.Fprintf(&b, "- Active Minutes: %d\n\n", dl.ActiveMinutes)

	b.WriteString("## Recent Meals (Last 3 Days)\n")
	if len(meals) == 0 {
		b.WriteString("No recent meals logged.\n")
	}
	for _, m := range meals {
		fmt.Fprintf(&b, "- %s: %d cal (Grade: %s)\n", m.FoodName, m.Calories, m.PlateGrade)
	}

	b.WriteString("\n## Guidelines\n")
	b.WriteString("1. Be encouraging, supportive, and positive\n")
	b.WriteString("2. Give specific, actionable advice based on the user's profile and goals\n")
	b.WriteString("3. Reference their recent meals when relevant\n")
	b.WriteString("4. Consider their medical conditions and allergies when suggesting foods\n")
	b.WriteString("5. Keep responses concise but helpful (2-4 paragraphs max)\n")
	b.WriteString("6. If asked about medical issues, remind them to consult a healthcare professional\n")

	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
