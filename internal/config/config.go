package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs at startup. Load returns it by
// value so each service takes exactly the fields it depends on instead of
// reading a package global.
type Config struct {
	HTTPPort       string
	DatabaseURL    string
	JWTSecret      string
	TokenTTL       time.Duration
	PredictAPIURL  string
	PredictTimeout time.Duration
	UploadDir      string
	Env            string
}

func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg := Config{
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		DatabaseURL:    getEnv("DATABASE_URL", "diagnosis.db"),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		TokenTTL:       getEnvAsDuration("TOKEN_TTL", 24*time.Hour),
		PredictAPIURL:  getEnv("PREDICT_API_URL", "http://127.0.0.1:5001"),
		PredictTimeout: getEnvAsDuration("PREDICT_TIMEOUT", 10*time.Second),
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		Env:            getEnv("ENV", "development"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	return cfg, nil
}

// Production reports whether verbose error details must be suppressed in
// client responses.
func (c Config) Production() bool {
	return c.Env == "production"
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsDuration accepts Go duration strings ("15m", "24h"). "0" is a
// valid value: a zero TOKEN_TTL issues tokens without an expiry claim.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid duration for %s: %q, using default %s", key, valueStr, defaultValue)
	return defaultValue
}
