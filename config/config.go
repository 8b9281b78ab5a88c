package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Database DatabaseConfig
	App      AppConfig
	Upload   UploadConfig
}

// DatabaseConfig holds database connection and pool settings. Pool
// sizes are tunables: some hosted providers misbehave with large pools,
// so the defaults stay small and everything is overridable.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type AppConfig struct {
	Environment string
	Port        string
	JWTSecret   string
	BaseURL     string

	// StrictTransitions rejects order status changes outside the
	// lifecycle table. Off, any transition is accepted (operator
	// override mode).
	StrictTransitions bool
}

type UploadConfig struct {
	Dir          string
	MaxSizeBytes int64
	AllowedMIME  []string
}

// Load reads configuration from the environment, with .env support.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found")
	}

	cfg := &Config{
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			DBName:          getEnv("DB_NAME", "restaurante"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 2),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		App: AppConfig{
			Environment:       getEnv("APP_ENV", "development"),
			Port:              getEnv("PORT", "8080"),
			JWTSecret:         getEnv("JWT_SECRET", ""),
			BaseURL:           getEnv("BASE_URL", "http://localhost:8080"),
			StrictTransitions: getEnvBool("ORDER_STRICT_TRANSITIONS", true),
		},
		Upload: UploadConfig{
			Dir:          getEnv("UPLOAD_DIR", "public/uploads/menu_images"),
			MaxSizeBytes: int64(getEnvInt("UPLOAD_MAX_SIZE_MB", 10)) << 20,
			AllowedMIME:  []string{"image/jpeg", "image/png", "image/webp"},
		},
	}

	if cfg.App.JWTSecret == "" && cfg.App.Environment == "production" {
		return nil, fmt.Errorf("JWT_SECRET is required in production")
	}

	return cfg, nil
}

// GetDSN returns the postgres connection string.
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
