package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Sahaji-2003/Food-Tracker/internal/analysis"
	"github.com/Sahaji-2003/Food-Tracker/internal/db"
	"github.com/Sahaji-2003/Food-Tracker/internal/gemini"
	"github.com/Sahaji-2003/Food-Tracker/internal/service"
	"github.com/Sahaji-2003/Food-Tracker/internal/utils"
	"go.uber.org/zap"
)

// POST /api/suggestions/menu — здоровый выбор по фото меню ресторана
func MenuSuggestionHandler(gc *gemini.Client, log *zap.Logger) http.HandlerFunc {
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
		consumed, err := service.ConsumedCalories(db.DB, userID, utils.Today())
		if err != nil {
			writeError(w, log, err)
			return
		}
		remaining := profile.DailyCalorieTarget - consumed
		if remaining < 0 {
			remaining = 0
		}

		answer, err := gc.SuggestFromMenu(r.Context(), image, mimeType, service.ProfileContext(profile), remaining)
		if err != nil {
			log.Error("Ошибка вызова Gemini", zap.Error(err))
			writeJSON(w, http.StatusBadGateway, map[string]string{"detail": "Suggestion service unavailable"})
			return
		}
		respondModelJSON(w, log, answer)
	}
}

// POST /api/suggestions/cooking — рецепты по фото холодильника
func CookingSuggestionHandler(gc *gemini.Client, log *zap.Logger) http.HandlerFunc {
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

		answer, err := gc.SuggestRecipes(r.Context(), image, mimeType, service.ProfileContext(profile))
		if err != nil {
			log.Error("Ошибка вызова Gemini", zap.Error(err))
			writeJSON(w, http.StatusBadGateway, map[string]string{"detail": "Suggestion service unavailable"})
			return
		}
		respondModelJSON(w, log, answer)
	}
}

// Подсказки отдаются клиенту как есть, после снятия markdown-обёртки и проверки JSON
func respondModelJSON(w http.ResponseWriter, log *zap.Logger, answer string) {
	cleaned := analysis.CleanModelResponse(answer)
	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		log.Warn("Ответ модели не является корректным JSON", zap.Error(err))
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "Suggestion failed, please retry"})
		return
	}
	writeJSON(w, http.StatusOK, payload)
}
