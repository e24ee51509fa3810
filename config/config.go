package config

import (
	"fmt"
	"os"
	"strconv"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type Config struct {
	Port    string
	GinMode string

	DBDriver string // "mysql" or "sqlite"
	DBDSN    string

	MenuDBURI      string
	MenuDBName     string
	SyncIntervalMs int
}

// Load reads configuration from the environment. godotenv has already
// populated it from .env when one exists.
func Load() Config {
	cfg := Config{
		Port:           getenv("PORT", "8080"),
		GinMode:        os.Getenv("GIN_MODE"),
		DBDriver:       getenv("DB_DRIVER", "sqlite"),
		DBDSN:          getenv("DB_DSN", "resto.db"),
		MenuDBURI:      os.Getenv("MENU_DB_URI"),
		MenuDBName:     getenv("MENU_DB_NAME", "digitalmenu"),
		SyncIntervalMs: 5000,
	}
	if v := os.Getenv("SYNC_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SyncIntervalMs = n
		}
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// InitDB opens the POS database.
func InitDB(cfg Config) (*gorm.DB, error) {
	switch cfg.DBDriver {
	case "mysql":
		return gorm.Open(mysql.Open(cfg.DBDSN), &gorm.Config{})
	case "sqlite":
		return gorm.Open(sqlite.Open(cfg.DBDSN), &gorm.Config{})
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}
