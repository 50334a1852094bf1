package config

import (
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	DB       DBConfig
	Gemini   GeminiConfig
	Supabase SupabaseConfig
	HTTPPort string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type SupabaseConfig struct {
	URL        string
	ServiceKey string
}

func Load(log *zap.Logger) *Config {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system env")
	}

	return &Config{
		DB: DBConfig{
			Host:     getEnv("DB_HOST", log),
			Port:     getEnv("DB_PORT", log),
			User:     getEnv("DB_USER", log),
			Password: getEnv("DB_PASSWORD", log),
			Name:     getEnv("DB_NAME", log),
			SSLMode:  getEnv("DB_SSLMODE", log),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", log),
			Model:  getEnvOr("GEMINI_MODEL", "gemini-2.0-flash"),
		},
		Supabase: SupabaseConfig{
			URL:        getEnv("SUPABASE_URL", log),
			ServiceKey: getEnv("SUPABASE_SERVICE_KEY", log),
		},
		HTTPPort: getEnvOr("HTTP_PORT", "8000"),
	}
}

func getEnv(key string, log *zap.Logger) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	log.Error("Обязательная переменная окружения не установлена", zap.String("key", key))
	panic("missing required environment variable: " + key)
}

// Для необязательных переменных со значением по умолчанию
func getEnvOr(key, def string) string {
	if val, exists := os.LookupEnv(key); exists && val != "" {
		return val
	}
	return def
}
