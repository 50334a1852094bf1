package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/Sahaji-2003/Food-Tracker/internal/db"
	"github.com/Sahaji-2003/Food-Tracker/internal/gemini"
	"github.com/Sahaji-2003/Food-Tracker/internal/models"
	"github.com/Sahaji-2003/Food-Tracker/internal/service"
	"github.com/Sahaji-2003/Food-Tracker/internal/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxUploadBytes = 10 << 20 // 10 МБ на фото

// POST /api/meals/analyze — анализ фото еды (multipart, поле file)
func AnalyzeMealHandler(gc *gemini.Client, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := UserID(r)

		image, mimeType, err := readUpload(r, "file")
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Image file is required"})
			return
		}

		profile, err := service.GetProfile(db.DB, userID)
		if err != nil {
			writeError(w, log, err)
			return
		}
		// Читаем один раз: и промпт, и пересчёт excess видят одно значение
		consumed, err := service.ConsumedCalories(db.DB, userID, utils.Today())
		if err != nil {
			writeError(w, log, err)
			return
		}

		answer, err := gc.AnalyzeMealImage(r.Context(), image, mimeType, service.ProfileContext(profile), consumed)
		if err != nil {
			log.Error("Ошибка вызова Gemini", zap.Error(err))
			writeJSON(w, http.StatusBadGateway, map[string]string{"detail": "Analysis service unavailable"})
			return
		}

		result, err := service.RecordMealAnalysis(db.DB, log, userID, answer, models.MealSourcePhoto, profile, consumed, time.Now())
		if err != nil {
			writeError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

type analyzeTextRequest struct {
	Text string `json:"text"`
}

// POST /api/meals/analyze-text — анализ текстового описания
func AnalyzeMealTextHandler(gc *gemini.Client, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := UserID(r)

		var in analyzeTextRequest
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Text == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Text description is required"})
			return
		}

		profile, err := service.GetProfile(db.DB, userID)
		if err != nil {
			writeError(w, log, err)
			return
		}
		consumed, err := service.ConsumedCalories(db.DB, userID, utils.Today())
		if err != nil {
			writeError(w, log, err)
			return
		}

		answer, err := gc.AnalyzeMealText(r.Context(), in.Text, service.ProfileContext(profile), consumed)
		if err != nil {
			log.Error("Ошибка вызова Gemini", zap.Error(err))
			writeJSON(w, http.StatusBadGateway, map[string]string{"detail": "Analysis service unavailable"})
			return
		}

		result, err := service.RecordMealAnalysis(db.DB, log, userID, answer, models.MealSourceText, profile, consumed, time.Now())
		if err != nil {
			writeError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

// GET /api/meals/history?limit=&offset=&today_only=
func MealHistoryHandler(log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := queryInt(r, "limit", 20, 1, 100)
		offset := queryInt(r, "offset", 0, 0, 1<<30)
		recentOnly := r.URL.Query().Get("today_only") != "false"

		meals, err := service.MealHistory(db.DB, UserID(r), limit, offset, recentOnly)
		if err != nil {
			writeError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"meals":  meals,
			"limit":  limit,
			"offset": offset,
		})
	}
}

// GET /api/meals/{meal_id} — приём пищи вместе с заданиями
func MealDetailHandler(log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mealID, err := uuid.Parse(r.PathValue("meal_id"))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Invalid meal id"})
			return
		}
		meal, tasks, err := service.MealDetail(db.DB, UserID(r), mealID)
		if err != nil {
			writeError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"meal":  meal,
			"tasks": tasks,
		})
	}
}

// DELETE /api/meals/{meal_id}
func DeleteMealHandler(log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mealID, err := uuid.Parse(r.PathValue("meal_id"))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Invalid meal id"})
			return
		}
		removed, err := service.DeleteMeal(db.DB, log, UserID(r), mealID)
		if err != nil {
			writeError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"message":          "Meal deleted successfully",
			"calories_removed": removed,
		})
	}
}

func readUpload(r *http.Request, field string) ([]byte, string, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, "", err
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		return nil, "", err
	}
	return data, header.Header.Get("Content-Type"), nil
}

func queryInt(r *http.Request, key string, def, min, max int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < min || v > max {
		return def
	}
	return v
}
