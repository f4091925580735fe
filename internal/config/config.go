package config

import (
	"log"
	"os"
	"strconv"
)

// Version identifiers reported by the health endpoint.
const (
	Version   = "1.0"
	ReleaseID = "1.1"
)

// Config holds all runtime configuration, loaded once in main.
type Config struct {
	Port     string
	MongoURI string
	DBName   string

	JWTSecret             string
	AccessTokenExpireDays int

	RedisAddr     string
	RedisPassword string

	SMTPServer       string
	SMTPPort         int
	SMTPUsername     string
	SMTPPassword     string
	EmailAccount     string
	ResetPasswordURL string
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8000"),
		MongoURI: getEnvRequired("MONGO_URI"),
		DBName:   getEnv("DB_NAME", "mannequins"),

		JWTSecret:             getEnvRequired("JWT_SECRET"),
		AccessTokenExpireDays: getEnvInt("ACCESS_TOKEN_EXPIRE_DAYS", 7),

		RedisAddr:     getEnvRequired("REDIS_ADDR"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		SMTPServer:       getEnv("SMTP_SERVER", "smtp.office365.com"),
		SMTPPort:         getEnvInt("SMTP_PORT", 465),
		SMTPUsername:     getEnv("SMTP_USERNAME", "support@mannequins.com"),
		SMTPPassword:     getEnv("SMTP_PASSWORD", "password"),
		EmailAccount:     getEnv("EMAIL_ACCOUNT", "support@mannequins.com"),
		ResetPasswordURL: getEnv("RESET_PASSWORD_URL", "http://localhost:3000/reset_password"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvRequired(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatalf("%s environment variable not set", key)
	}
	return value
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}
