package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays configuration from environment variables. A .env file in
// the working directory is loaded first, if present; real environment
// variables win over .env entries.
//
// Recognized variables:
//
//	ADDRESS              HTTP bind address (e.g., ":8000")
//	DATABASE_DSN         PostgreSQL DSN
//	JWT_SECRET_KEY       HMAC secret for signing credentials
//	TOKEN_VALIDITY_DAYS  credential lifetime, days
//	ENVIRONMENT          environment name label
func parseEnv(config *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("ADDRESS"); v != "" {
		config.Address = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		config.DatabaseDSN = v
	}
	if v := os.Getenv("JWT_SECRET_KEY"); v != "" {
		config.SecretKey = v
	}
	if v := os.Getenv("TOKEN_VALIDITY_DAYS"); v != "" {
		if days, err := strconv.Atoi(v); err == nil {
			config.TokenValidityDuration = time.Duration(days) * 24 * time.Hour
		}
	}
	if v := os.Getenv("ENVIRONMENT"); v != "" {
		config.Environment = v
	}
}
