package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                 string
	DBUrl                string
	JWTSecret            string
	MessageEncryptionKey string
	AppEnv               string
	GeminiAPIKey         string
	GeminiModel          string
	AWSRegion            string
	AWSAccessKey         string
	AWSSecretKey         string
	S3Bucket             string
	RedisAddr            string
	RedisPassword        string
	NotifyCatchupWindow  time.Duration
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	jwtSecret, exists := os.LookupEnv("JWT_SECRET")
	if !exists || jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	// Messaging cannot run without the at-rest key, so treat absence as fatal.
	encryptionKey, exists := os.LookupEnv("MESSAGE_ENCRYPTION_KEY")
	if !exists || encryptionKey == "" {
		return nil, fmt.Errorf("MESSAGE_ENCRYPTION_KEY is required")
	}

	return &Config{
		Port:                 getEnv("PORT", "8080"),
		DBUrl:                getEnv("DB_URL", ""),
		JWTSecret:            jwtSecret,
		MessageEncryptionKey: encryptionKey,
		AppEnv:               normalizeEnv(getEnv("APP_ENV", "production")),
		GeminiAPIKey:         getEnv("GEMINI_API_KEY", ""),
		GeminiModel:          getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		AWSRegion:            getEnv("AWS_REGION", ""),
		AWSAccessKey:         getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:         getEnv("AWS_SECRET_ACCESS_KEY", ""),
		S3Bucket:             getEnv("S3_BUCKET", ""),
		RedisAddr:            getEnv("REDIS_ADDR", ""),
		RedisPassword:        getEnv("REDIS_PASSWORD", ""),
		NotifyCatchupWindow:  getEnvDuration("NOTIFY_CATCHUP_WINDOW", 5*time.Second),
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}

	parsed, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func normalizeEnv(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "dev", "develop", "development", "local":
		return "development"
	case "prod", "production":
		return "production"
	case "stage", "staging":
		return "staging"
	case "test", "testing":
		return "test"
	default:
		return strings.ToLower(strings.TrimSpace(value))
	}
}
