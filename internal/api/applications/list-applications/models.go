package listapplications

import (
	"time"

	"livest/internal/common/database"
	"livest/internal/common/logger"
	"livest/internal/models"
)

type Output struct {
	Success      bool                  `json:"success"`
	Applications []*models.Application `json:"applications"`
}

type ServiceDependencies struct {
	DB     *database.PostgresClient
	Logger logger.Logger
	Now    func() time.Time
}
