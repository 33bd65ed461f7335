package config

import (
	"fmt"
	"net/url"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Port         string
	Env          string
	StoreBackend string // "memory", "redis", "postgres" or "sqlite"

	RedisURL   string
	SQLitePath string

	// Relational backend connection parameters
	DatabaseHost     string
	DatabaseUsername string
	DatabasePassword string
	DatabaseName     string
	DatabasePort     string
}

// Load reads configuration from environment variables.
// In development, it loads from .env file if present.
// In production, it panics on missing required variables.
func Load() *Config {
	// Load .env file if it exists (for development)
	_ = godotenv.Load()

	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		Env:          getEnv("ENV", "development"),
		StoreBackend: getEnv("STORE_BACKEND", "memory"),

		RedisURL:   os.Getenv("REDIS_URL"),
		SQLitePath: os.Getenv("SQLITE_PATH"),

		DatabaseHost:     os.Getenv("DATABASE_HOST"),
		DatabaseUsername: os.Getenv("DATABASE_USERNAME"),
		DatabasePassword: os.Getenv("DATABASE_PASSWORD"),
		DatabaseName:     os.Getenv("DATABASE_NAME"),
		DatabasePort:     getEnv("DATABASE_PORT", "5432"),
	}

	if cfg.Env == "production" {
		switch cfg.StoreBackend {
		case "postgres":
			if cfg.DatabaseHost == "" || cfg.DatabaseName == "" {
				panic("DATABASE_HOST and DATABASE_NAME are required in production")
			}
		case "redis":
			if cfg.RedisURL == "" {
				panic("REDIS_URL is required in production")
			}
		case "memory":
			panic("STORE_BACKEND=memory does not persist; use redis, postgres or sqlite in production")
		}
	}

	return cfg
}

// DatabaseURL assembles the postgres connection string from the individual
// DATABASE_* parameters.
func (c *Config) DatabaseURL() string {
	u := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%s", c.DatabaseHost, c.DatabasePort),
		Path:   "/" + c.DatabaseName,
	}
	if c.DatabaseUsername != "" {
		u.User = url.UserPassword(c.DatabaseUsername, c.DatabasePassword)
	}
	return u.String()
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
