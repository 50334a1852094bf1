package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Ответ модели не распарсился в ожидаемую схему. Для клиента это повод повторить запрос.
var ErrMalformedAnalysis = errors.New("malformed analysis")

type MacroSet struct {
	Protein int `json:"p"`
	Carbs   int `json:"c"`
	Fat     int `json:"f"`
}

type RawItem struct {
	Name     string `json:"name"`
	Calories int    `json:"calories"`
	Quantity string `json:"quantity"`
}

type RawTask struct {
	Type            string   `json:"type"`
	Name            string   `json:"name"`
	DurationMinutes int      `json:"duration_minutes"`
	CaloriesToBurn  int      `json:"calories_to_burn"`
	DistanceKm      *float64 `json:"distance_km,omitempty"`
	Steps           *int     `json:"steps,omitempty"`
	Description     string   `json:"description"`
}

// Сырой ответ Gemini после снятия markdown-обёртки.
// Новый формат отдаёт total_calories, старый — calories; первый имеет приоритет.
type RawAnalysis struct {
	Food             string    `json:"food"`
	ImageDescription string    `json:"image_description"`
	Items            []RawItem `json:"items"`
	TotalCalories    *int      `json:"total_calories"`
	Calories         *int      `json:"calories"`
	Macros           MacroSet  `json:"macros"`
	PlateGrade       string    `json:"plate_grade"`
	Reasoning        string    `json:"reasoning"`
	Ingredients      string    `json:"ingredients"`
	ExcessCalories   int       `json:"excess_calories"`
	Tasks            []RawTask `json:"tasks"`
}

// Каноническое представление анализа. ExcessCalories всегда пересчитан локально,
// цифре модели не доверяем (защита от инъекции числа через промпт).
type MealAnalysis struct {
	Food             string    `json:"food"`
	ImageDescription string    `json:"image_description"`
	Items            []RawItem `json:"items"`
	TotalCalories    int       `json:"total_calories"`
	Macros           MacroSet  `json:"macros"`
	PlateGrade       string    `json:"plate_grade"`
	Reasoning        string    `json:"reasoning"`
	Ingredients      string    `json:"ingredients"`
	ExcessCalories   int       `json:"excess_calories"`
	Tasks            []RawTask `json:"tasks"`
}

// Снимает обёртку ```json ... ``` и прочий шум вокруг JSON-объекта
func CleanModelResponse(response string) string {
	response = strings.ReplaceAll(response, "```json", "")
	response = strings.ReplaceAll(response, "```", "")
	response = strings.TrimSpace(response)

	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start != -1 && end != -1 && end > start {
		response = response[start : end+1]
	}
	return response
}

// Разбирает сырой ответ модели. Любая ошибка разбора — ErrMalformedAnalysis.
func Parse(response string) (*RawAnalysis, error) {
	cleaned := CleanModelResponse(response)

	var raw RawAnalysis
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedAnalysis, err)
	}
	if raw.TotalCalories == nil && raw.Calories == nil {
		return nil, fmt.Errorf("%w: neither total_calories nor calories present", ErrMalformedAnalysis)
	}
	if total := totalCalories(&raw); total < 0 {
		return nil, fmt.Errorf("%w: negative calories %d", ErrMalformedAnalysis, total)
	}
	return &raw, nil
}

func totalCalories(raw *RawAnalysis) int {
	if raw.TotalCalories != nil {
		return *raw.TotalCalories
	}
	return *raw.Calories
}

// Приводит сырой ответ к каноническому виду и детерминированно считает перебор калорий:
// excess = max(0, consumed + total - target). Чистая функция, без побочных эффектов.
func Normalize(raw *RawAnalysis, calorieTarget, caloriesConsumed int) MealAnalysis {
	total := totalCalories(raw)

	food := raw.Food
	if food == "" {
		food = "Unknown Food"
	}
	grade := raw.PlateGrade
	if grade == "" {
		grade = "C"
	}

	excess := caloriesConsumed + total - calorieTarget
	if excess < 0 {
		excess = 0
	}

	return MealAnalysis{
		Food:             food,
		ImageDescription: raw.ImageDescription,
		Items:            raw.Items,
		TotalCalories:    total,
		Macros:           raw.Macros,
		PlateGrade:       grade,
		Reasoning:        raw.Reasoning,
		Ingredients:      raw.Ingredients,
		ExcessCalories:   excess,
		Tasks:            raw.Tasks,
	}
}
