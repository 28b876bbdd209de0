package config

import (
	"os"
	"strconv"
	"time"

	"chess_backend/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	AllowedOrigin string
	LogLevel      string
	LogJSON       bool

	// HTTP rate limits
	APIRateLimit  int
	APIRateWindow time.Duration

	// Move submissions per IP (tighter than the API limit)
	MoveRateLimit  int
	MoveRateWindow time.Duration

	// Time control bounds for new games, seconds
	MinTimeControl int
	MaxTimeControl int
	MaxIncrement   int
}

// Load reads configuration from the environment (.env is optional).
func Load() *Config {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			redisDB = n
		}
	}

	return &Config{
		AppPort:       port,
		DatabaseURL:   dbURL,
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,
		AllowedOrigin: os.Getenv("ALLOWED_ORIGIN"),
		LogLevel:      envString("LOG_LEVEL", "info"),
		LogJSON:       os.Getenv("LOG_JSON") == "true",

		APIRateLimit:   envInt("API_RATE_LIMIT", 60),
		APIRateWindow:  envSeconds("API_RATE_WINDOW_SECONDS", time.Minute),
		MoveRateLimit:  envInt("MOVE_RATE_LIMIT", 120),
		MoveRateWindow: envSeconds("MOVE_RATE_WINDOW_SECONDS", time.Minute),

		MinTimeControl: envInt("MIN_TIME_CONTROL", 30),
		MaxTimeControl: envInt("MAX_TIME_CONTROL", 3600),
		MaxIncrement:   envInt("MAX_INCREMENT", 30),
	}
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func envSeconds(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return def
}
