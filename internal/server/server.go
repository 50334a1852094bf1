package server

import (
	"net/http"

	"github.com/Sahaji-2003/Food-Tracker/internal/auth"
	"github.com/Sahaji-2003/Food-Tracker/internal/config"
	"github.com/Sahaji-2003/Food-Tracker/internal/gemini"
	"github.com/Sahaji-2003/Food-Tracker/internal/handlers"
	"go.uber.org/zap"
)

// Собирает маршруты и запускает HTTP-сервер (аналог bot-инициализации, но для мобильного клиента)
func Run(cfg *config.Config, log *zap.Logger) {
	ac := auth.NewClient(cfg.Supabase)
	gc := gemini.NewClient(cfg.Gemini)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"healthy"}`))
	})

	api := http.NewServeMux()

	// Профиль
	api.Handle("GET /api/profile", handlers.GetProfileHandler(log))
	api.Handle("PUT /api/profile", handlers.UpdateProfileHandler(log))

	// Дневной журнал
	api.Handle("GET /api/daily", handlers.GetDailyLogHandler(log))
	api.Handle("POST /api/daily/water", handlers.AddWaterHandler(log))
	api.Handle("POST /api/daily/steps", handlers.AddStepsHandler(log))
	api.Handle("POST /api/daily/activity", handlers.AddActivityHandler(log))

	// Приёмы пищи и задания. Статические маршруты /tasks должны идти
	// отдельно от /{meal_id} — у ServeMux выигрывает более конкретный шаблон.
	api.Handle("POST /api/meals/analyze", handlers.AnalyzeMealHandler(gc, log))
	api.Handle("POST /api/meals/analyze-text", handlers.AnalyzeMealTextHandler(gc, log))
	api.Handle("GET /api/meals/history", handlers.MealHistoryHandler(log))
	api.Handle("GET /api/meals/tasks", handlers.ListTasksHandler(log))
	api.Handle("PATCH /api/meals/tasks/{task_id}", handlers.UpdateTaskHandler(log))
	api.Handle("DELETE /api/meals/tasks/{task_id}", handlers.DeleteTaskHandler(log))
	api.Handle("GET /api/meals/{meal_id}", handlers.MealDetailHandler(log))
	api.Handle("DELETE /api/meals/{meal_id}", handlers.DeleteMealHandler(log))

	// Подсказки
	api.Handle("POST /api/suggestions/menu", handlers.MenuSuggestionHandler(gc, log))
	api.Handle("POST /api/suggestions/cooking", handlers.CookingSuggestionHandler(gc, log))

	// Чат
	api.Handle("POST /api/chat", handlers.ChatHandler(gc, log))
	api.Handle("GET /api/chat/history", handlers.ChatHistoryHandler(log))
	api.Handle("DELETE /api/chat/history", handlers.ClearChatHistoryHandler(log))
	api.Handle("POST /api/chat/vision", handlers.ChatVisionHandler(gc, log))

	mux.Handle("/api/", handlers.AuthMiddleware(ac, log, api))

	addr := ":" + cfg.HTTPPort
	log.Info("HTTP-сервер запущен", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, handlers.CORSMiddleware(handlers.LoggingMiddleware(log, mux))); err != nil {
		log.Fatal("HTTP-сервер остановлен с ошибкой", zap.Error(err))
	}
}
