// Package listapplications lists the applications visible to the caller:
// a tenant's own, or those on a manager's properties.
package listapplications

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

const OperationName = "list-applications"

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
		clause = "WHERE a.tenant_id = $1\nORDER BY a.application_date DESC"
	case auth.RoleManager:
		clause = "JOIN properties ap ON ap.id = a.property_id\nWHERE ap.manager_id = $1\nORDER BY a.application_date DESC"
	default:
		return nil, apperrors.NewForbiddenError("")
	}

	apps, err := queries.SelectApplications(ctx, s.db.DB, clause, principal.UserID)
	if err != nil {
		return nil, s.internal(err)
	}
	if apps == nil {
		apps = []*models.Application{}
	}

	properties := make(map[string]*models.Property)
	now := s.now()
	for _, app := range apps {
		prop, ok := properties[app.PropertyID]
		if !ok {
			if prop, err = queries.GetProperty(ctx, s.db.DB, app.PropertyID); err != nil {
				return nil, s.internal(err)
			}
			properties[app.PropertyID] = prop
		}
		app.Property = prop
		app.Manager = prop.Manager

		lease, err := queries.LatestLease(ctx, s.db.DB, app.TenantID, app.PropertyID)
		if err != nil {
			return nil, s.internal(err)
		}
		if lease != nil {
			next := models.NextPaymentAfter(lease.StartDate, now)
			lease.NextPaymentDate = &next
		}
		app.Lease = lease
	}

	return &Output{Success: true, Applications: apps}, nil
}

func (s *Service) internal(err error) error {
	s.logger.Error("list applications failed", map[string]interface{}{"error": err.Error()})
	return apperrors.NewInternalError("Error getting applications", err)
}
