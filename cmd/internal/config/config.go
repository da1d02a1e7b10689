package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath       string
	ListenAddr   string
	AuthProvider string // "local" or "cognito"
	TokenSecret  string
}

func New() *Config {
	_ = godotenv.Load()

	return &Config{
		DBPath:       getEnv("DB_PATH", "./database.db"),
		ListenAddr:   getEnv("LISTEN_ADDR", ":6060"),
		AuthProvider: getEnv("AUTH_PROVIDER", "local"),
		TokenSecret:  getEnv("TOKEN_SECRET", ""),
	}
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}
