// internal/workers/property/sync-property-index/config.go
package syncpropertyindex

import (
	"time"

	"livest/internal/common/config"
)

type Config struct {
	IndexName string
	Timeout   time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	timeout := config.GetDuration(config.GetWorkerConfig(cfg, TaskType).Timeout)
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	index := cfg.Search.IndexName
	if index == "" {
		index = "properties"
	}
	return &Config{IndexName: index, Timeout: timeout}
}
