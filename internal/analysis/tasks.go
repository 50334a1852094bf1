package analysis

import (
	"strings"

	"github.com/Sahaji-2003/Food-Tracker/internal/models"
)

// Генератор заданий. Кандидатов отдаёт модель, здесь только фильтрация:
// атрибуты задания не пересчитываются, calories_to_burn после создания неизменяем.
// UserID/MealID/Date проставляет вызывающий при сохранении.
func GenerateTasks(excessCalories int, preferred []string, candidates []RawTask) []models.BurnTask {
	if excessCalories <= 0 {
		// Нет перебора — нет заданий, даже если модель что-то предложила
		return nil
	}

	prefSet := preferredSet(preferred)

	var tasks []models.BurnTask
	for _, c := range candidates {
		taskType := strings.ToLower(strings.TrimSpace(c.Type))
		if c.CaloriesToBurn <= 0 {
			continue
		}
		if !models.ValidTaskType(taskType) || !prefSet[taskType] {
			continue
		}

		name := c.Name
		if name == "" {
			name = "Burn calories"
		}
		duration := c.DurationMinutes
		if duration <= 0 {
			duration = 30
		}

		tasks = append(tasks, models.BurnTask{
			TaskType:        taskType,
			Name:            name,
			Description:     c.Description,
			DurationMinutes: duration,
			CaloriesToBurn:  c.CaloriesToBurn,
			DistanceKm:      c.DistanceKm,
			Steps:           c.Steps,
			Status:          models.TaskStatusPending,
		})
	}
	return tasks
}

// Пустой список предпочтений означает прогулки по умолчанию
func preferredSet(preferred []string) map[string]bool {
	set := make(map[string]bool, len(preferred))
	for _, p := range preferred {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			set[p] = true
		}
	}
	if len(set) == 0 {
		set[models.TaskTypeWalking] = true
	}
	return set
}
