package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port                 string
	DatabaseURL          string
	DBLogLevel           string
	JWTSecret            string
	PaystackSecretKey    string
	PaystackBaseURL      string
	PaystackCallbackURL  string
	PaystackTimeout      time.Duration
	ResendAPIKey         string
	FromEmail            string
	RabbitURL            string
	PaymentsExchange     string
	CORSOrigins          string
	AdminRoutesProtected bool
}

// Load reads the configuration from the environment. It fails when a
// required secret or the database settings are missing.
func Load() (Config, error) {
	cfg := Config{
		Port:                 getEnv("PORT", "8080"),
		DBLogLevel:           getEnv("DB_LOG_LEVEL", "warn"),
		JWTSecret:            os.Getenv("JWT_SECRET_KEY"),
		PaystackSecretKey:    os.Getenv("PAYSTACK_SECRET_KEY"),
		PaystackBaseURL:      getEnv("PAYSTACK_BASE_URL", "https://api.paystack.co"),
		PaystackCallbackURL:  getEnv("PAYSTACK_CALLBACK_URL", "http://localhost:5173/payment-success"),
		PaystackTimeout:      parseDuration("PAYSTACK_TIMEOUT", 15*time.Second),
		ResendAPIKey:         os.Getenv("RESEND_API_KEY"),
		FromEmail:            getEnv("FROM_EMAIL", "onboarding@resend.dev"),
		RabbitURL:            os.Getenv("RABBIT_URL"),
		PaymentsExchange:     getEnv("PAYMENTS_EXCHANGE", "payments.events"),
		CORSOrigins:          getEnv("CORS_ORIGINS", "*"),
		AdminRoutesProtected: parseBool("ADMIN_ROUTES_PROTECTED", false),
	}

	dsn, err := databaseURL()
	if err != nil {
		return Config{}, err
	}
	cfg.DatabaseURL = dsn

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET_KEY environment variable not set")
	}
	if cfg.PaystackSecretKey == "" {
		return Config{}, fmt.Errorf("PAYSTACK_SECRET_KEY environment variable not set")
	}

	return cfg, nil
}

// databaseURL prefers DATABASE_URL and falls back to the individual DB_* variables.
func databaseURL() (string, error) {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn, nil
	}

	host := os.Getenv("DB_HOST")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_NAME")
	port := os.Getenv("DB_PORT")

	if host == "" || user == "" || password == "" || dbname == "" || port == "" {
		return "", fmt.Errorf("database configuration not provided: either set DATABASE_URL or all of DB_HOST, DB_USER, DB_PASSWORD, DB_NAME, and DB_PORT")
	}

	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		host, user, password, dbname, port,
	), nil
}

// LogSummary prints the loaded settings with secrets masked.
func (c Config) LogSummary() {
	log.Printf("🔍 Configuration:")
	log.Printf("   PORT: '%s'", c.Port)
	log.Printf("   JWT_SECRET_KEY: '%s'", Mask(c.JWTSecret))
	log.Printf("   PAYSTACK_SECRET_KEY: '%s'", Mask(c.PaystackSecretKey))
	log.Printf("   PAYSTACK_BASE_URL: '%s'", c.PaystackBaseURL)
	log.Printf("   RESEND_API_KEY: '%s'", Mask(c.ResendAPIKey))
	log.Printf("   RABBIT_URL set: %t", c.RabbitURL != "")
	log.Printf("   ADMIN_ROUTES_PROTECTED: %t", c.AdminRoutesProtected)
}

// Mask hides all but the first and last two characters of a secret.
func Mask(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return s[:2] + "****" + s[len(s)-2:]
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func parseDuration(key string, def time.Duration) time.Duration {
	if raw, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(raw); err == nil {
			return d
		}
	}
	return def
}

func parseBool(key string, def bool) bool {
	if raw, ok := os.LookupEnv(key); ok {
		if v, err := strconv.ParseBool(strings.TrimSpace(raw)); err == nil {
			return v
		}
	}
	return def
}
