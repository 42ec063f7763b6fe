package getproperty

import (
	"time"

	"livest/internal/common/database"
	"livest/internal/common/logger"
	"livest/internal/models"
)

type Output struct {
	Success  bool             `json:"success"`
	Property *models.Property `json:"property"`
}

type Config struct {
	CacheTTL time.Duration
}

func DefaultConfig() *Config {
	return &Config{CacheTTL: 5 * time.Minute}
}

type ServiceDependencies struct {
	DB     *database.PostgresClient
	Cache  *database.RedisClient
	Logger logger.Logger
}
