package config

import (
	"log"
	"os"
	"strconv"
)

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type AppConfig struct {
	Port          string
	Database      DatabaseConfig
	JWTSecret     string
	Environment   string
	ScreenshotDir string
	MaxRetries    int
}

func GetDatabaseConfig() DatabaseConfig {
	password := getEnv("DB_PASSWORD", "")
	if password == "" {
		log.Println("Warning: DB_PASSWORD environment variable is not set")
	}

	return DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: password,
		DBName:   getEnv("DB_NAME", "applypilot"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}
}

func GetAppConfig() AppConfig {
	maxRetries, err := strconv.Atoi(getEnv("APPLICATION_MAX_RETRIES", "3"))
	if err != nil || maxRetries < 1 {
		maxRetries = 3
	}

	return AppConfig{
		Port:          getEnv("PORT", "8081"),
		Database:      GetDatabaseConfig(),
		JWTSecret:     getEnv("JWT_SECRET", "your-secret-key"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		ScreenshotDir: getEnv("SCREENSHOT_DIR", "./screenshots"),
		MaxRetries:    maxRetries,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
