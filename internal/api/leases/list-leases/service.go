// Package listleases lists the leases visible to the caller with their
// property, tenant and next payment date.
package listleases

import (
	"context"
	"time"

	"livest/internal/common/auth"
	"livest/internal/common/database"
	apperrors "livest/internal/common/errors"
	"livest/internal/common/logger"
	"livest/internal/models"
	"livest/internal/queries"
)

const OperationName = "list-leases"

type Service struct {
	db     *database.PostgresClient
	logger logger.Logger
	now    func() time.Time
}

func NewService(deps ServiceDependencies) *Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		db:     deps.DB,
		logger: deps.Logger.WithFields(map[string]interface{}{"operation": OperationName}),
		now:    now,
	}
}

func (s *Service) Execute(ctx context.Context, principal *auth.Principal) (*Output, error) {
	if err := auth.RequireAny(principal); err != nil {
		return nil, err
	}

	var clause string
	switch principal.Role {
	case auth.RoleTenant:
		clause = "WHERE le.tenant_id = $1\nORDER BY le.start_date DESC"
	case auth.RoleManager:
		clause = "JOIN properties lp ON lp.id = le.property_id\nWHERE lp.manager_id = $1\nORDER BY le.start_date DESC"
	default:
		return nil, apperrors.NewForbiddenError("")
	}

	leases, err := queries.SelectLeases(ctx, s.db.DB, clause, principal.UserID)
	if err != nil {
		return nil, s.internal(err)
	}
	if leases == nil {
		leases = []*models.Lease{}
	}

	properties := make(map[string]*models.Property)
	tenants := make(map[string]*models.User)
	now := s.now()
	for _, lease := range leases {
		prop, ok := properties[lease.PropertyID]
		if !ok {
			if prop, err = queries.GetProperty(ctx, s.db.DB, lease.PropertyID); err != nil {
				return nil, s.internal(err)
			}
			properties[lease.PropertyID] = prop
		}
		tenant, ok := tenants[lease.TenantID]
		if !ok {
			if tenant, err = queries.GetUser(ctx, s.db.DB, lease.TenantID); err != nil {
				return nil, s.internal(err)
			}
			tenants[lease.TenantID] = tenant
		}

		lease.Property = prop
		lease.Tenant = tenant
		next := models.NextPaymentAfter(lease.StartDate, now)
		lease.NextPaymentDate = &next
	}

	return &Output{Success: true, Leases: leases}, nil
}

func (s *Service) internal(err error) error {
	s.logger.Error("list leases failed", map[string]interface{}{"error": err.Error()})
	return apperrors.NewInternalError("Error retrieving leases", err)
}
