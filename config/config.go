package config

import (
	"fmt"
	"os"
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Config carries every externally supplied setting. Values come from the
// environment (optionally seeded from a .env file by main).
type Config struct {
	Port     string
	GinMode  string
	DBDriver string
	DBDSN    string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPSender   string
}

func Load() *Config {
	cfg := &Config{
		Port:         getenv("PORT", "8080"),
		GinMode:      os.Getenv("GIN_MODE"),
		DBDriver:     getenv("DB_DRIVER", "mysql"),
		DBDSN:        os.Getenv("DATABASE_DSN"),
		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPSender:   getenv("SMTP_SENDER", "no-reply@ita-disc.org"),
	}
	cfg.SMTPPort = 587
	if p := os.Getenv("SMTP_PORT"); p != "" {
		fmt.Sscanf(p, "%d", &cfg.SMTPPort)
	}
	return cfg
}

// SMTPConfigured reports whether outbound mail can use a real SMTP relay.
// Without it the notifier falls back to log-only delivery.
func (c *Config) SMTPConfigured() bool {
	return c.SMTPHost != ""
}

// InitDB opens the configured database. sqlite is supported for local
// development and tests; mysql for deployments.
func InitDB(cfg *Config) (*gorm.DB, error) {
	switch cfg.DBDriver {
	case "sqlite":
		dsn := cfg.DBDSN
		if dsn == "" {
			dsn = "ita_disc.db"
		}
		return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	case "mysql":
		if cfg.DBDSN == "" {
			return nil, fmt.Errorf("DATABASE_DSN is required for mysql")
		}
		return gorm.Open(mysql.Open(withClientFoundRows(cfg.DBDSN)), &gorm.Config{})
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

// withClientFoundRows makes the mysql driver report matched rows instead
// of changed rows. The workflow services read RowsAffected to detect a
// missing row or a disallowed status; without this flag an update that
// rewrites identical values would be mistaken for "not found".
func withClientFoundRows(dsn string) string {
	if strings.Contains(dsn, "clientFoundRows") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "clientFoundRows=true"
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
