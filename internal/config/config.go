package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Port       string
	DSN        string
	JWTSecret  string
	CORSOrigin string
	Env        string
}

// Load reads the .env file (if present) and returns the resolved Config.
// Missing .env is fine in production where real env variables are set.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("WARNING: Could not find or load .env file. Relying on system environment variables.")
	}

	return &Config{
		Port:       getEnv("PORT", "5000"),
		DSN:        getEnv("DB_DSN", "root:root@tcp(127.0.0.1:3306)/ramzan_homeo?parseTime=true"),
		JWTSecret:  getEnv("JWT_SECRET", ""),
		CORSOrigin: getEnv("CORS_ORIGIN", "http://localhost:5173"),
		Env:        getEnv("ENV", "development"),
	}
}

// getEnv returns the variable's value, or the fallback if it is unset.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
