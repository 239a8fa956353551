// Package config собирает настройки сервера из окружения и .env.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort       = "8080"
	defaultSQLitePath = "wordicum.db"
	defaultPageSize   = 10
	defaultSessionTTL = 24 * time.Hour
)

// Config - настройки сервера. Флаги командной строки могут переопределить их после Load.
type Config struct {
	Port          string
	DatabaseURL   string
	SQLitePath    string
	SessionSecret string
	SessionTTL    time.Duration
	PageSize      int
}

// Addr - адрес для http.Server.
func (c Config) Addr() string {
	return ":" + c.Port
}

// Load читает .env (если он есть) и переменные окружения.
// Переменные окружения имеют приоритет над .env.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("failed to load env file: %w", err)
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup строит конфигурацию из произвольного источника переменных.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}
		return def
	}

	cfg := Config{
		Port:          get("PORT", defaultPort),
		DatabaseURL:   get("DATABASE_URL", ""),
		SQLitePath:    get("SQLITE_PATH", defaultSQLitePath),
		SessionSecret: get("SESSION_SECRET", ""),
		SessionTTL:    defaultSessionTTL,
		PageSize:      defaultPageSize,
	}

	if raw := get("SESSION_TTL", ""); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil || ttl <= 0 {
			return Config{}, fmt.Errorf("invalid SESSION_TTL %q", raw)
		}
		cfg.SessionTTL = ttl
	}
	if raw := get("PAGE_SIZE", ""); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("invalid PAGE_SIZE %q", raw)
		}
		cfg.PageSize = n
	}
	return cfg, nil
}
