package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	DBVerbose     bool
	RedisHost     string
	RedisPort     string
	RedisPassword string
	SessionSecret string
	GinMode       string
	Port          string
	MapsDir       string
	FrontendDir   string
	SentryDSN     string
	SentryEnv     string
	MeiliHost     string
	MeiliKey      string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; variables already set win.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:        getEnv("PGHOST", "localhost"),
		DBPort:        getEnv("PGPORT", "5432"),
		DBUser:        getEnv("PGUSER", ""),
		DBPassword:    getEnv("PGPASSWORD", ""),
		DBName:        getEnv("PGDATABASE", "paradb"),
		DBSSLMode:     getEnv("PGSSLMODE", "disable"),
		DBVerbose:     getEnv("VERBOSE_POSTGRES", "false") == "true",
		RedisHost:     getEnv("REDIS_HOST", ""),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		SessionSecret: getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		GinMode:       getEnv("GIN_MODE", "debug"),
		Port:          getEnv("PORT", "8080"),
		MapsDir:       getEnv("MAPS_DIR", ""),
		FrontendDir:   getEnv("FE_DIR", "../fe"),
		SentryDSN:     getEnv("SENTRY_DSN", ""),
		SentryEnv:     getEnv("SENTRY_ENV", ""),
		MeiliHost:     getEnv("MEILISEARCH_HOST", "http://localhost:7700"),
		MeiliKey:      getEnv("MEILISEARCH_KEY", ""),
	}

	cfg.warnBlank()
	return cfg
}

// warnBlank logs required settings that were left empty. Nothing is enforced
// here; a missing credential surfaces at first use.
func (c *Config) warnBlank() {
	required := []struct {
		key   string
		value string
	}{
		{"PGUSER", c.DBUser},
		{"PGPASSWORD", c.DBPassword},
		{"MAPS_DIR", c.MapsDir},
		{"SENTRY_DSN", c.SentryDSN},
		{"SENTRY_ENV", c.SentryEnv},
		{"MEILISEARCH_KEY", c.MeiliKey},
	}
	for _, r := range required {
		if r.value == "" {
			log.Printf("%s has been left blank in .env -- intentional?", r.key)
		}
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost,
		c.DBPort,
		c.DBUser,
		c.DBPassword,
		c.DBName,
		c.DBSSLMode,
	)
}

// RedisAddr returns host:port for the session store, or "" when Redis is
// not configured.
func (c *Config) RedisAddr() string {
	if c.RedisHost == "" {
		return ""
	}
	return c.RedisHost + ":" + c.RedisPort
}

// CheckMapsDir verifies that the map data directory is accessible.
func (c *Config) CheckMapsDir() error {
	if _, err := os.Stat(c.MapsDir); err != nil {
		return fmt.Errorf("could not access maps dir: %w", err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
