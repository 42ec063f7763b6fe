package listproperties

import (
	"livest/internal/common/database"
	"livest/internal/common/logger"
	"livest/internal/models"
)

// ManagedProperty is a manager's own property with its dashboard counters.
type ManagedProperty struct {
	*models.Property
	Stats models.PropertyStats `json:"stats"`
}

type ManagedOutput struct {
	Success    bool               `json:"success"`
	Properties []*ManagedProperty `json:"properties"`
}

type Output struct {
	Success    bool               `json:"success"`
	Properties []*models.Property `json:"properties"`
}

type ServiceDependencies struct {
	DB     *database.PostgresClient
	Logger logger.Logger
}

type statsRow struct {
	PropertyID string `db:"property_id"`
	models.PropertyStats
}
