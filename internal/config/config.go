package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	Database              DatabaseConfig   `json:"database"`
	JWTSecret             string           `json:"jwt_secret"`
	Port                  int              `json:"port"`
	JWTTTLHours           int              `json:"jwt_ttl_hours"`
	LogConfig             logger.LogConfig `json:"log_config"`
	RenderMarkdown        bool             `json:"render_markdown"`
	PageCache             PageCacheConfig  `json:"page_cache"`
	RevisionGCCron        *string          `json:"revision_gc_cron"`
	LoginRateLimitSeconds int              `json:"login_rate_limit_seconds"`
	CORSOrigins           []string         `json:"cors_origins"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
	SSLMode  string `json:"sslmode"`
}

type PageCacheConfig struct {
	Size       int `json:"size"`
	TTLSeconds int `json:"ttl_seconds"`
}

const defaultRevisionGCCron = "30 3 * * *"

// GCCron returns the revision gc schedule; an explicit empty string disables it.
func (c *Config) GCCron() string {
	if c.RevisionGCCron == nil {
		return defaultRevisionGCCron
	}
	return *c.RevisionGCCron
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() error {
	if c.Database.DSN == "" && c.Database.Host == "" {
		return fmt.Errorf("database.dsn or database.host is required")
	}
	if c.Database.DSN == "" {
		if c.Database.Port == 0 {
			c.Database.Port = 5432
		}
		if c.Database.DBName == "" {
			return fmt.Errorf("database.dbname is required")
		}
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("jwt_secret is required")
	}
	if c.Port == 0 {
		return fmt.Errorf("port is required")
	}
	if c.JWTTTLHours == 0 {
		c.JWTTTLHours = 72
	}
	if c.LogConfig.Level == "" {
		c.LogConfig.Level = "info"
	}
	if c.PageCache.Size == 0 {
		c.PageCache.Size = 256
	}
	if c.PageCache.TTLSeconds == 0 {
		c.PageCache.TTLSeconds = 60
	}
	if c.LoginRateLimitSeconds == 0 {
		c.LoginRateLimitSeconds = 1
	}
	return nil
}
