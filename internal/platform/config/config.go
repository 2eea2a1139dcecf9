package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr               string
	DatabaseURL        string
	JWTSecret          string
	FrontendDir        string
	MigrationsDir      string
	Environment        string
	SeedSalonName      string
	SeedAdminEmail     string
	SeedAdminPassword  string
	RunMigrations      bool
	RunSeed            bool
	MaxBodyBytes       int64
	RateLimitPerMinute int
	RemindersEnabled   bool
	ReminderCronSpec   string
	CleanupCronSpec    string
	CanceledRetention  time.Duration
	SendGridAPIKey     string
	EmailFrom          string
	EmailFromName      string
	TwilioAccountSID   string
	TwilioAuthToken    string
	TwilioFromNumber   string
	StripeAPIKey       string
	StripeSuccessURL   string
	StripeCancelURL    string
	Currency           string
	AvailabilityCache  int
}

func Load() Config {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	return Config{
		Addr:               getEnv("APP_ADDR", ":8080"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		FrontendDir:        getEnv("FRONTEND_DIR", "frontend/dist"),
		MigrationsDir:      getEnv("MIGRATIONS_DIR", "migrations"),
		Environment:        getEnv("APP_ENV", "development"),
		SeedSalonName:      getEnv("SEED_SALON_NAME", "Default Salon"),
		SeedAdminEmail:     getEnv("SEED_ADMIN_EMAIL", ""),
		SeedAdminPassword:  getEnv("SEED_ADMIN_PASSWORD", ""),
		RunMigrations:      getEnvBool("RUN_MIGRATIONS", true),
		RunSeed:            getEnvBool("RUN_SEED", true),
		MaxBodyBytes:       int64(getEnvInt("MAX_BODY_BYTES", 1048576)),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		RemindersEnabled:   getEnvBool("REMINDERS_ENABLED", false),
		ReminderCronSpec:   getEnv("REMINDER_CRON", "0 18 * * *"),
		CleanupCronSpec:    getEnv("CLEANUP_CRON", "30 3 * * *"),
		CanceledRetention:  getEnvDuration("CANCELED_RETENTION", 90*24*time.Hour),
		SendGridAPIKey:     getEnv("SENDGRID_API_KEY", ""),
		EmailFrom:          getEnv("EMAIL_FROM", "no-reply@example.com"),
		EmailFromName:      getEnv("EMAIL_FROM_NAME", "Salon"),
		TwilioAccountSID:   getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:    getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioFromNumber:   getEnv("TWILIO_FROM_NUMBER", ""),
		StripeAPIKey:       getEnv("STRIPE_API_KEY", ""),
		StripeSuccessURL:   getEnv("STRIPE_SUCCESS_URL", "http://localhost:3000/sales/paid?session_id={CHECKOUT_SESSION_ID}"),
		StripeCancelURL:    getEnv("STRIPE_CANCEL_URL", "http://localhost:3000/sales/canceled"),
		Currency:           getEnv("CURRENCY", "usd"),
		AvailabilityCache:  getEnvInt("AVAILABILITY_CACHE_SIZE", 512),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Environment == "production" {
		if strings.TrimSpace(c.JWTSecret) == "" {
			return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
		}
		if c.RunSeed && strings.TrimSpace(c.SeedAdminPassword) == "" {
			return fmt.Errorf("SEED_ADMIN_PASSWORD must be changed or RUN_SEED disabled in production")
		}
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.RemindersEnabled && c.SendGridAPIKey == "" && c.TwilioAccountSID == "" {
		return fmt.Errorf("REMINDERS_ENABLED requires SendGrid or Twilio credentials")
	}
	if c.AvailabilityCache <= 0 {
		return fmt.Errorf("AVAILABILITY_CACHE_SIZE must be positive")
	}
	return nil
}
