// Package listproperties lists properties by owner or by resident: the
// caller's own dashboard, a manager's public listing and a tenant's homes.
package listproperties

import (
	"context"

	"livest/internal/common/auth"
	"livest/internal/common/database"
	apperrors "livest/internal/common/errors"
	"livest/internal/common/logger"
	"livest/internal/models"
	"livest/internal/queries"

	"github.com/jmoiron/sqlx"
)

const OperationName = "list-properties"

const (
	byManager = "WHERE p.manager_id = $1\nORDER BY p.created_at DESC"
	byTenant  = "JOIN property_tenants pt ON pt.property_id = p.id\nWHERE pt.tenant_id = $1\nORDER BY p.created_at DESC"
)

const statsQuery = `SELECT p.id AS property_id,
	(SELECT count(*) FROM applications a WHERE a.property_id = p.id) AS application_count,
	(SELECT count(*) FROM leases le WHERE le.property_id = p.id) AS lease_count,
	(SELECT count(*) FROM user_favorites uf WHERE uf.property_id = p.id) AS favorite_count
FROM properties p
WHERE p.manager_id = $1`

type Service struct {
	db     *database.PostgresClient
	logger logger.Logger
}

func NewService(deps ServiceDependencies) *Service {
	return &Service{
		db:     deps.DB,
		logger: deps.Logger.WithFields(map[string]interface{}{"operation": OperationName}),
	}
}

// Mine lists the calling manager's properties with their counters.
func (s *Service) Mine(ctx context.Context, principal *auth.Principal) (*ManagedOutput, error) {
	if err := auth.RequireRole(principal, auth.RoleManager); err != nil {
		return nil, err
	}

	props, err := queries.SelectProperties(ctx, s.db.DB, byManager, principal.UserID)
	if err != nil {
		return nil, s.internal(err)
	}

	var stats []statsRow
	if err := sqlx.SelectContext(ctx, s.db.DB, &stats, statsQuery, principal.UserID); err != nil {
		return nil, s.internal(err)
	}
	byID := make(map[string]models.PropertyStats, len(stats))
	for _, st := range stats {
		byID[st.PropertyID] = st.PropertyStats
	}

	out := make([]*ManagedProperty, 0, len(props))
	for _, p := range props {
		out = append(out, &ManagedProperty{Property: p, Stats: byID[p.ID]})
	}
	return &ManagedOutput{Success: true, Properties: out}, nil
}

// ForManager lists the properties of managerID.
func (s *Service) ForManager(ctx context.Context, managerID string) (*Output, error) {
	return s.forUser(ctx, managerID, models.UserRoleManager, byManager, "Manager not found")
}

// ForTenant lists the properties tenantID resides in.
func (s *Service) ForTenant(ctx context.Context, tenantID string) (*Output, error) {
	return s.forUser(ctx, tenantID, models.UserRoleTenant, byTenant, "Tenant not found")
}

func (s *Service) forUser(ctx context.Context, userID string, role models.UserRole, clause, notFound string) (*Output, error) {
	_, err := queries.GetUserWithRole(ctx, s.db.DB, userID, role)
	if database.IsNotFound(err) {
		return nil, apperrors.NewNotFoundError(notFound)
	}
	if err != nil {
		return nil, s.internal(err)
	}

	props, err := queries.SelectProperties(ctx, s.db.DB, clause, userID)
	if err != nil {
		return nil, s.internal(err)
	}
	return &Output{Success: true, Properties: props}, nil
}

func (s *Service) internal(err error) error {
	s.logger.Error("list properties failed", map[string]interface{}{"error": err.Error()})
	return apperrors.NewInternalError("Error retrieving properties", err)
}
