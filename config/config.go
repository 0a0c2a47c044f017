package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Missing-question policies for quiz submissions.
const (
	MissingQuestionSkip   = "skip"
	MissingQuestionReject = "reject"
)

// Config holds application configuration
type Config struct {
	Port   string
	AppEnv string

	DBDriver   string
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBDSN      string

	JWTKey          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	SaltRound       int
	ResetTokenTTL   time.Duration

	MissingQuestionPolicy string

	SendGridAPIKey  string
	EmailSender     string
	EmailSenderName string

	NotifyWebhookURL string
	HousekeepingCron string
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:   getEnv("PORT", "3000"),
		AppEnv: getEnv("APP_ENV", "development"),

		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "lms"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBDSN:      getEnv("DB_DSN", ""),

		JWTKey:          getEnv("JWT_SECRET_KEY", "defaultSecret"),
		AccessTokenTTL:  getEnvDuration("ACCESS_TOKEN_TTL", 30*time.Minute),
		RefreshTokenTTL: getEnvDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		SaltRound:       getEnvInt("SALT_ROUND", 10),
		ResetTokenTTL:   getEnvDuration("RESET_TOKEN_TTL", time.Hour),

		MissingQuestionPolicy: normalizePolicy(getEnv("MISSING_QUESTION_POLICY", MissingQuestionSkip)),

		SendGridAPIKey:  getEnv("SENDGRID_API_KEY", ""),
		EmailSender:     getEnv("EMAIL_SENDER", "no-reply@lms.local"),
		EmailSenderName: getEnv("EMAIL_SENDER_NAME", "LMS"),

		NotifyWebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		HousekeepingCron: getEnv("HOUSEKEEPING_CRON", "0 3 * * *"),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.SendGridAPIKey == "" {
		log.Println("Warning: SENDGRID_API_KEY not set. Emails will only be logged.")
	}
}

// Default returns a configuration suitable for tests and local tooling.
func Default() *Config {
	return &Config{
		Port:                  "3000",
		AppEnv:                "test",
		DBDriver:              "sqlite",
		DBName:                "file::memory:?cache=shared",
		JWTKey:                "test-secret",
		AccessTokenTTL:        30 * time.Minute,
		RefreshTokenTTL:       24 * time.Hour,
		SaltRound:             4,
		ResetTokenTTL:         time.Hour,
		MissingQuestionPolicy: MissingQuestionSkip,
		EmailSender:           "no-reply@lms.local",
		EmailSenderName:       "LMS",
		HousekeepingCron:      "0 3 * * *",
	}
}

func normalizePolicy(p string) string {
	switch strings.ToLower(strings.TrimSpace(p)) {
	case MissingQuestionReject:
		return MissingQuestionReject
	case MissingQuestionSkip, "":
		return MissingQuestionSkip
	default:
		log.Printf("Warning: unknown MISSING_QUESTION_POLICY %q, falling back to %q", p, MissingQuestionSkip)
		return MissingQuestionSkip
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to duration: %v", key, err)
		return defaultValue
	}
	return d
}
