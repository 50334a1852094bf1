package handlers

import (
	"net/http"
	"time"

	"github.com/Sahaji-2003/Food-Tracker/internal/db"
	"github.com/Sahaji-2003/Food-Tracker/internal/models"
	"github.com/Sahaji-2003/Food-Tracker/internal/service"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GET /api/meals/tasks?status=pending|completed
func ListTasksHandler(log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := r.URL.Query().Get("status")
		if status != "" && status != models.TaskStatusPending && status != models.TaskStatusCompleted {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "status must be pending or completed"})
			return
		}
		tasks, err := service.ListTasks(db.DB, UserID(r), status)
		if err != nil {
			writeError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"tasks": tasks})
	}
}

// PATCH /api/meals/tasks/{task_id}?status=pending|completed
func UpdateTaskHandler(log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		taskID, err := uuid.Parse(r.PathValue("task_id"))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Invalid task id"})
			return
		}
		status := r.URL.Query().Get("status")

		task, err := service.SetTaskStatus(db.DB, log, UserID(r), taskID, status, time.Now())
		if err != nil {
			writeError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"message": "Task updated successfully",
			"task":    task,
		})
	}
}

// DELETE /api/meals/tasks/{task_id}
func DeleteTaskHandler(log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		taskID, err := uuid.Parse(r.PathValue("task_id"))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Invalid task id"})
			return
		}
		if err := service.DeleteTask(db.DB, log, UserID(r), taskID); err != nil {
			writeError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Task deleted successfully"})
	}
}
