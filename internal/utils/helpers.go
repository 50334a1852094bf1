package utils

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Упрощённая функция для распаковки datatypes.JSON
func UnmarshalJSON(data interface{}, v interface{}) error {
	switch t := data.(type) {
	case []byte:
		return json.Unmarshal(t, v)
	case string:
		return json.Unmarshal([]byte(t), v)
	default:
		return json.Unmarshal([]byte(fmt.Sprintf("%v", t)), v)
	}
}

// Обрезает время до даты (полночь UTC) — ключ для daily_logs
func DayOf(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour)
}

func Today() time.Time {
	return DayOf(time.Now())
}

func Yesterday() time.Time {
	return Today().AddDate(0, 0, -1)
}

// Список строк в человекочитаемую строку ("a, b" либо fallback)
func JoinOr(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return strings.Join(items, ", ")
}
