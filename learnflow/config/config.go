package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL   string
	JWTSecret     string
	JWTExpiry     time.Duration
	SessionSecret string
	ClientOrigin  string
	DeepSeekKey   string
	Port          string
	UploadDir     string

	// Optional MinIO backend for attachments. Disk storage is used when
	// the endpoint is empty.
	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
}

func LoadConfig() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	return Config{
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		JWTExpiry:      getDuration("JWT_EXPIRY", 24*time.Hour),
		SessionSecret:  getEnv("SESSION_SECRET", ""),
		ClientOrigin:   getEnv("CLIENT_ORIGIN", "*"),
		DeepSeekKey:    getEnv("DEEPSEEK_API_KEY", ""),
		Port:           getEnv("PORT", "3001"),
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		MinIOEndpoint:  getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey: getEnv("MINIO_SECRET_KEY", ""),
		MinIOBucket:    getEnv("MINIO_BUCKET", "learnflow-uploads"),
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
