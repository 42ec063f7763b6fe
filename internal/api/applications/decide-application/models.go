package decideapplication

import (
	"time"

	"livest/internal/common/camunda"
	"livest/internal/common/database"
	"livest/internal/common/logger"
	"livest/internal/common/observability"
	"livest/internal/models"
)

type Input struct {
	ApplicationID string                   `json:"-"`
	Status        models.ApplicationStatus `json:"status"`
}

type Output struct {
	Success     bool                `json:"success"`
	Application *models.Application `json:"application"`
	Message     string              `json:"message"`
}

type ServiceDependencies struct {
	DB            *database.PostgresClient
	Publisher     camunda.Publisher
	Observability *observability.Observability
	Logger        logger.Logger
	Now           func() time.Time
}

// decisionTarget is the locked application row plus the property fields the
// decision needs.
type decisionTarget struct {
	ID              string                   `db:"id"`
	Status          models.ApplicationStatus `db:"status"`
	PropertyID      string                   `db:"property_id"`
	TenantID        string                   `db:"tenant_id"`
	ManagerID       string                   `db:"manager_id"`
	PricePerMonth   float64                  `db:"price_per_month"`
	SecurityDeposit float64                  `db:"security_deposit"`
}
