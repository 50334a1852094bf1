package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/Sahaji-2003/Food-Tracker/internal/ledger"
	"github.com/Sahaji-2003/Food-Tracker/internal/models"
	"github.com/Sahaji-2003/Food-Tracker/internal/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Список заданий: невыполненные за сегодня и вчера, выполненные только за сегодня
func ListTasks(db *gorm.DB, userID uuid.UUID, statusFilter string) ([]models.BurnTask, error) {
	var tasks []models.BurnTask

	if statusFilter == "" || statusFilter == models.TaskStatusPending {
		var pending []models.BurnTask
		err := db.Where("user_id = ? AND status = ? AND created_at >= ?",
			userID, models.TaskStatusPending, utils.Yesterday()).
			Order("created_at desc").Find(&pending).Error
		if err != nil {
			return nil, fmt.Errorf("list pending tasks: %w", err)
		}
		tasks = append(tasks, pending...)
	}

	if statusFilter == "" || statusFilter == models.TaskStatusCompleted {
		var completed []models.BurnTask
		err := db.Where("user_id = ? AND status = ? AND created_at >= ?",
			userID, models.TaskStatusCompleted, utils.Today()).
			Order("created_at desc").Find(&completed).Error
		if err != nil {
			return nil, fmt.Errorf("list completed tasks: %w", err)
		}
		tasks = append(tasks, completed...)
	}

	return tasks, nil
}

// Смена статуса задания. Повторная установка текущего статуса ничего не пишет
// и не трогает журнал; иначе статус и completed_at сохраняются, затем журнал.
func SetTaskStatus(db *gorm.DB, log *zap.Logger, userID, taskID uuid.UUID, newStatus string, now time.Time) (*models.BurnTask, error) {
	if newStatus != models.TaskStatusPending && newStatus != models.TaskStatusCompleted {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, newStatus)
	}

	task, err := loadTask(db, userID, taskID)
	if err != nil {
		return nil, err
	}
	if task.Status == newStatus {
		return task, nil
	}

	oldStatus := task.Status
	var completedAt *time.Time
	if newStatus == models.TaskStatusCompleted {
		completedAt = &now
	}

	err = db.Model(task).Updates(map[string]interface{}{
		"status":       newStatus,
		"completed_at": completedAt,
	}).Error
	if err != nil {
		return nil, fmt.Errorf("update task status: %w", err)
	}
	task.Status = newStatus
	task.CompletedAt = completedAt

	if err := ledger.ApplyTaskStatusChange(db, log, userID, task.Date, task.CaloriesToBurn, oldStatus, newStatus); err != nil {
		return nil, fmt.Errorf("apply status change to ledger: %w", err)
	}
	return task, nil
}

// Удаление задания: компенсация calories_out для выполненных, затем удаление
func DeleteTask(db *gorm.DB, log *zap.Logger, userID, taskID uuid.UUID) error {
	task, err := loadTask(db, userID, taskID)
	if err != nil {
		return err
	}
	if err := ledger.CompensateTaskDeleted(db, log, userID, task.Date, task.CaloriesToBurn, task.Status); err != nil {
		return fmt.Errorf("compensate task: %w", err)
	}
	if err := db.Delete(&models.BurnTask{}, "id = ?", taskID).Error; err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

func loadTask(db *gorm.DB, userID, taskID uuid.UUID) (*models.BurnTask, error) {
	var task models.BurnTask
	err := db.First(&task, "id = ? AND user_id = ?", taskID, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load task: %w", err)
	}
	return &task, nil
}
