package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	dconfig "mttr-dashboard/domain/config"
)

// DefaultPath is used when CONFIG_PATH is unset.
const DefaultPath = "./config.yml"

// Path resolves the config file location from CONFIG_PATH.
func Path() string {
	return getEnv("CONFIG_PATH", DefaultPath)
}

// Load builds the configuration: defaults, then the YAML file at path (a
// missing file is fine), then environment overrides. A .env file in the
// working directory is loaded first when present.
func Load(path string) (*dconfig.Config, error) {
	_ = godotenv.Load(".env")

	c := dconfig.Default()
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := applyEnv(c); err != nil {
		return nil, err
	}
	if err := validate(c); err != nil {
		return nil, err
	}
	return c, nil
}

func applyEnv(c *dconfig.Config) error {
	c.Environment = getEnv("APP_ENV", c.Environment)
	c.HTTP.Addr = getEnv("HTTP_ADDR", c.HTTP.Addr)
	c.Session.Store = getEnv("SESSION_STORE", c.Session.Store)
	c.Redis.Addr = getEnv("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = getEnv("REDIS_PASSWORD", c.Redis.Password)

	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("REDIS_DB: %w", err)
		}
		c.Redis.DB = db
	}
	if v := os.Getenv("SESSION_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SESSION_TTL: %w", err)
		}
		c.Session.TTL = ttl
	}
	if v := os.Getenv("MAX_UPLOAD_MB"); v != "" {
		mb, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MAX_UPLOAD_MB: %w", err)
		}
		c.HTTP.MaxUploadMB = mb
	}
	return nil
}

func validate(c *dconfig.Config) error {
	switch c.Session.Store {
	case dconfig.StoreMemory, dconfig.StoreRedis:
	default:
		return fmt.Errorf("invalid session store: %s", c.Session.Store)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session ttl must be positive, got %s", c.Session.TTL)
	}
	if c.HTTP.MaxUploadMB <= 0 {
		return fmt.Errorf("max upload must be positive, got %d MB", c.HTTP.MaxUploadMB)
	}
	return nil
}

// NewLogger creates a zap logger suited to the configured environment.
func NewLogger(c *dconfig.Config) (*zap.Logger, error) {
	if c.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
