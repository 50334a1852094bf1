package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Sahaji-2003/Food-Tracker/internal/db"
	"github.com/Sahaji-2003/Food-Tracker/internal/ledger"
	"github.com/Sahaji-2003/Food-Tracker/internal/service"
	"github.com/Sahaji-2003/Food-Tracker/internal/utils"
	"go.uber.org/zap"
)

// GET /api/daily?date=YYYY-MM-DD (по умолчанию сегодня)
func GetDailyLogHandler(log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date := utils.Today()
		if raw := r.URL.Query().Get("date"); raw != "" {
			parsed, err := time.Parse("2006-01-02", raw)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Invalid date, expected YYYY-MM-DD"})
				return
			}
			date = utils.DayOf(parsed)
		}

		dl, err := service.GetDailyLog(db.DB, UserID(r), date)
		if err != nil {
			writeError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, dl)
	}
}

type amountRequest struct {
	Amount int `json:"amount"`
}

// POST /api/daily/water — по умолчанию +250 мл.
// Счётчики воды/шагов/активности прибавляются тем же атомарным путём, что и калории.
func AddWaterHandler(log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		amount := readAmount(r, 250)
		userID := UserID(r)
		if err := ledger.AddWater(db.DB, log, userID, utils.Today(), amount); err != nil {
			writeError(w, log, err)
			return
		}
		respondDaily(w, log, r)
	}
}

// POST /api/daily/steps
func AddStepsHandler(log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		amount := readAmount(r, 0)
		if amount <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "amount must be positive"})
			return
		}
		if err := ledger.AddSteps(db.DB, log, UserID(r), utils.Today(), amount); err != nil {
			writeError(w, log, err)
			return
		}
		respondDaily(w, log, r)
	}
}

// POST /api/daily/activity — активные минуты
func AddActivityHandler(log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		amount := readAmount(r, 0)
		if amount <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "amount must be positive"})
			return
		}
		if err := ledger.AddActiveMinutes(db.DB, log, UserID(r), utils.Today(), amount); err != nil {
			writeError(w, log, err)
			return
		}
		respondDaily(w, log, r)
	}
}

func readAmount(r *http.Request, def int) int {
	var in amountRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err == nil && in.Amount > 0 {
		return in.Amount
	}
	return def
}

func respondDaily(w http.ResponseWriter, log *zap.Logger, r *http.Request) {
	dl, err := service.GetDailyLog(db.DB, UserID(r), utils.Today())
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, dl)
}
