package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Sahaji-2003/Food-Tracker/internal/db"
	"github.com/Sahaji-2003/Food-Tracker/internal/gemini"
	"github.com/Sahaji-2003/Food-Tracker/internal/models"
	"github.com/Sahaji-2003/Food-Tracker/internal/service"
	"github.com/Sahaji-2003/Food-Tracker/internal/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

type chatResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
}

// POST /api/chat
func ChatHandler(gc *gemini.Client, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in chatRequest
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Message == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Message is required"})
			return
		}

		reply, err := service.ChatWithBuddy(r.Context(), db.DB, log, gc, UserID(r), in.Message)
		if err != nil {
			writeError(w, log, err)
			return
		}

		sessionID := in.SessionID
		if sessionID == "" {
			sessionID = uuid.NewString()
		}
		writeJSON(w, http.StatusOK, chatResponse{Response: reply, SessionID: sessionID})
	}
}

// GET /api/chat/history?limit=
func ChatHistoryHandler(log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := queryInt(r, "limit", 20, 1, 100)
		msgs, err := service.ChatHistory(db.DB, UserID(r), limit)
		if err != nil {
			writeError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"messages": msgs})
	}
}

// DELETE /api/chat/history
func ClearChatHistoryHandler(log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := service.ClearChatHistory(db.DB, UserID(r)); err != nil {
			writeError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Chat history cleared"})
	}
}

// POST /api/chat/vision — сообщение с картинкой (multipart: image, message)
func ChatVisionHandler(gc *gemini.Client, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := UserID(r)

		image, mimeType, err := readUpload(r, "image")
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Image file is required"})
			return
		}
		message := r.FormValue("message")
		if message == "" {
			message = "What can you tell me about this image?"
		}

		profile, err := service.GetProfile(db.DB, userID)
		if err != nil {
			writeError(w, log, err)
			return
		}

		prompt := fmt.Sprintf(`You are Fit Buddy, a friendly AI health assistant.

User Profile:
- Goal: %s
- Calorie Target: %d cal
- Allergies: %s

User Message: %s

Analyze this image in the context of health, nutrition, or fitness. Be helpful and conversational.`,
			profile.TargetGoal, profile.DailyCalorieTarget,
			utils.JoinOr(service.ProfileContext(profile).Allergies, "None"), message)

		reply, err := gc.ChatVision(r.Context(), prompt, image, mimeType)
		if err != nil {
			log.Error("Ошибка вызова Gemini", zap.Error(err))
			writeJSON(w, http.StatusBadGateway, map[string]string{"detail": "Chat service unavailable"})
			return
		}

		// Сохраняем обе реплики, чтобы история чата оставалась связной
		_ = db.DB.Create(&models.ChatMessage{UserID: userID, Role: models.ChatRoleUser, Content: "📷 " + message}).Error
		_ = db.DB.Create(&models.ChatMessage{UserID: userID, Role: models.ChatRoleAssistant, Content: reply}).Error

		writeJSON(w, http.StatusOK, chatResponse{Response: reply, SessionID: uuid.NewString()})
	}
}
