package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Greenhouse GreenhouseConfig
	Sync       SyncConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout time.Duration
	PoolMaxConns   int32
	PoolMinConns   int32
}

type GreenhouseConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
}

type SyncConfig struct {
	// BatchTimeout bounds a whole scheduled batch run.
	BatchTimeout time.Duration
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

func Load() (Config, error) {
	cfg := Config{}

	var missing []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key, def string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return def
		}
		return v
	}

	cfg.App = AppConfig{
		AppName:     opt("APP_NAME", "reqcheck-sync"),
		Environment: opt("APP_ENV", "development"),
		HTTPPort:    req("HTTP_PORT"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:         opt("DB_HOST", "localhost"),
		DBPort:         opt("DB_PORT", "5432"),
		DBName:         req("DB_NAME"),
		DBUser:         req("DB_USER"),
		DBPassword:     os.Getenv("DB_PASSWORD"),
		DBSSLMode:      opt("DB_SSL_MODE", "disable"),
		ConnectTimeout: durationEnv("DB_CONNECT_TIMEOUT_SECONDS", 5*time.Second),
		PoolMaxConns:   int32(intEnv("DB_POOL_MAX_CONNS", 0)),
		PoolMinConns:   int32(intEnv("DB_POOL_MIN_CONNS", 0)),
	}

	cfg.Greenhouse = GreenhouseConfig{
		BaseURL:        opt("GREENHOUSE_BASE_URL", "https://boards-api.greenhouse.io"),
		RequestTimeout: durationEnv("GREENHOUSE_TIMEOUT_SECONDS", 30*time.Second),
	}

	cfg.Sync = SyncConfig{
		BatchTimeout: durationEnv("SYNC_BATCH_TIMEOUT_SECONDS", 10*time.Minute),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	return cfg, nil
}

func intEnv(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	return v
}

func durationEnv(key string, def time.Duration) time.Duration {
	v := intEnv(key, -1)
	if v <= 0 {
		return def
	}
	return time.Duration(v) * time.Second
}
