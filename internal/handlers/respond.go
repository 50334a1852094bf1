package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Sahaji-2003/Food-Tracker/internal/analysis"
	"github.com/Sahaji-2003/Food-Tracker/internal/ledger"
	"github.com/Sahaji-2003/Food-Tracker/internal/service"
	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Единое сопоставление ошибок ядра с HTTP-статусами
func writeError(w http.ResponseWriter, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found"})
	case errors.Is(err, service.ErrInvalidStatus):
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": err.Error()})
	case errors.Is(err, analysis.ErrMalformedAnalysis):
		// Ответ модели не распарсился — клиенту имеет смысл повторить запрос
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "Analysis failed, please retry"})
	case errors.Is(err, ledger.ErrLedgerConflict):
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"detail": "Temporary conflict, please retry"})
	default:
		log.Error("Необработанная ошибка запроса", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": err.Error()})
	}
}
