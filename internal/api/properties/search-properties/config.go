package searchproperties

import (
	"time"

	"livest/internal/common/config"
)

type Config struct {
	Backend      string
	RadiusMeters float64
	IndexName    string
	Timeout      time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		Backend:      config.SearchBackendPostgres,
		RadiusMeters: 1000,
		IndexName:    "properties",
		Timeout:      10 * time.Second,
	}
}

// ConfigFrom adapts the search section of the application config.
func ConfigFrom(cfg config.SearchConfig) *Config {
	c := DefaultConfig()
	if cfg.Backend != "" {
		c.Backend = cfg.Backend
	}
	if cfg.RadiusMeters > 0 {
		c.RadiusMeters = cfg.RadiusMeters
	}
	if cfg.IndexName != "" {
		c.IndexName = cfg.IndexName
	}
	if cfg.Timeout > 0 {
		c.Timeout = config.GetDuration(cfg.Timeout)
	}
	return c
}
