package config

import (
	"os"
	"strconv"
)

type Config struct {
	// Server
	Port string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Auth (single operator account)
	AdminUsername    string
	AdminPassword    string
	AdminDisplayName string
	JWTSecret        string
	JWTExpiryHours   int

	// Reconciliation sweep
	SweepEnabled  bool
	SweepSchedule string // cron expression

	// Audit worker
	AuditQueueSize int

	Environment string
}

func Load() *Config {
	return &Config{
		Port:             getEnv("PORT", "8080"),
		DBHost:           getEnv("DB_HOST", "localhost"),
		DBPort:           getEnv("DB_PORT", "5432"),
		DBUser:           getEnv("DB_USER", "postgres"),
		DBPassword:       getEnv("DB_PASSWORD", ""),
		DBName:           getEnv("DB_NAME", "maintdeck"),
		DBSSLMode:        getEnv("DB_SSLMODE", "disable"),
		AdminUsername:    getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:    getEnv("ADMIN_PASSWORD", ""),
		AdminDisplayName: getEnv("ADMIN_DISPLAY_NAME", "Administrator"),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTExpiryHours:   getEnvInt("JWT_EXPIRY_HOURS", 24),
		SweepEnabled:     getEnvBool("SWEEP_ENABLED", true),
		SweepSchedule:    getEnv("SWEEP_SCHEDULE", "@every 1m"),
		AuditQueueSize:   getEnvInt("AUDIT_QUEUE_SIZE", 256),
		Environment:      getEnv("ENVIRONMENT", "development"),
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}
