package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Sahaji-2003/Food-Tracker/internal/db"
	"github.com/Sahaji-2003/Food-Tracker/internal/service"
	"go.uber.org/zap"
)

func GetProfileHandler(log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := service.GetProfile(db.DB, UserID(r))
		if err != nil {
			writeError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, profile)
	}
}

func UpdateProfileHandler(log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in service.ProfileUpdate
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Invalid JSON body"})
			return
		}
		profile, err := service.UpdateProfile(db.DB, UserID(r), in)
		if err != nil {
			writeError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, profile)
	}
}
