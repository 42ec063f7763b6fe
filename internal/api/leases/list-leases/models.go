package listleases

import (
	"time"

	"livest/internal/common/database"
	"livest/internal/common/logger"
	"livest/internal/models"
)

type Output struct {
	Success bool            `json:"success"`
	Leases  []*models.Lease `json:"leases"`
}

type ServiceDependencies struct {
	DB     *database.PostgresClient
	Logger logger.Logger
	Now    func() time.Time
}
