package listpayments

import (
	"livest/internal/common/database"
	"livest/internal/common/logger"
	"livest/internal/models"
)

type Output struct {
	Success  bool              `json:"success"`
	Payments []*models.Payment `json:"payments"`
}

type ServiceDependencies struct {
	DB     *database.PostgresClient
	Logger logger.Logger
}

// leaseParties identifies who may read a lease's payments.
type leaseParties struct {
	TenantID  string `db:"tenant_id"`
	ManagerID string `db:"manager_id"`
}
