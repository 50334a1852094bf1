package analysis_test

import (
	"testing"

	"github.com/Sahaji-2003/Food-Tracker/internal/analysis"
	"github.com/Sahaji-2003/Food-Tracker/internal/models"
)

func candidates() []analysis.RawTask {
	return []analysis.RawTask{
		{Type: "walking", Name: "Evening walk", DurationMinutes: 25, CaloriesToBurn: 120},
		{Type: "running", Name: "Short run", DurationMinutes: 15, CaloriesToBurn: 150},
		{Type: "yoga", Name: "Yoga flow", DurationMinutes: 20, CaloriesToBurn: 0},
	}
}

func TestGenerateTasksZeroExcess(t *testing.T) {
	t.Parallel()

	tasks := analysis.GenerateTasks(0, []string{"walking", "running"}, candidates())
	if len(tasks) != 0 {
		t.Fatalf("expected no tasks when excess is zero, got %d", len(tasks))
	}
}

func TestGenerateTasksFiltersByPreference(t *testing.T) {
	t.Parallel()

	// running не в предпочтениях — кандидат отбрасывается даже при переборе
	tasks := analysis.GenerateTasks(100, []string{"walking"}, candidates())
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	if tasks[0].TaskType != models.TaskTypeWalking {
		t.Fatalf("expected walking task, got %q", tasks[0].TaskType)
	}
	if tasks[0].CaloriesToBurn != 120 {
		t.Fatalf("expected 120 kcal passthrough, got %d", tasks[0].CaloriesToBurn)
	}
	if tasks[0].Status != models.TaskStatusPending {
		t.Fatalf("expected pending status, got %q", tasks[0].Status)
	}
}

func TestGenerateTasksDropsNonPositiveBurn(t *testing.T) {
	t.Parallel()

	tasks := analysis.GenerateTasks(200, []string{"walking", "running", "yoga"}, candidates())
	for _, task := range tasks {
		if task.CaloriesToBurn <= 0 {
			t.Fatalf("task %q kept with non-positive calories_to_burn", task.Name)
		}
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks (yoga dropped), got %d", len(tasks))
	}
}

func TestGenerateTasksDefaultsToWalking(t *testing.T) {
	t.Parallel()

	tasks := analysis.GenerateTasks(100, nil, candidates())
	if len(tasks) != 1 || tasks[0].TaskType != models.TaskTypeWalking {
		t.Fatalf("expected only walking with empty preferences, got %+v", tasks)
	}
}

func TestGenerateTasksDropsUnknownType(t *testing.T) {
	t.Parallel()

	tasks := analysis.GenerateTasks(100, []string{"walking"}, []analysis.RawTask{
		{Type: "crossfit", Name: "Unknown sport", CaloriesToBurn: 100},
	})
	if len(tasks) != 0 {
		t.Fatalf("expected unknown activity type dropped, got %d tasks", len(tasks))
	}
}
