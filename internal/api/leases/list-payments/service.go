// Package listpayments lists the payments of one lease to its tenant or
// to the manager of the leased property.
package listpayments

import (
	"context"

	"livest/internal/common/auth"
	"livest/internal/common/database"
	apperrors "livest/internal/common/errors"
	"livest/internal/common/logger"
	"livest/internal/models"
)

const OperationName = "list-payments"

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

func (s *Service) Execute(ctx context.Context, principal *auth.Principal, leaseID string) (*Output, error) {
	if err := auth.RequireAny(principal); err != nil {
		return nil, err
	}

	var parties leaseParties
	err := s.db.DB.GetContext(ctx, &parties, `
		SELECT le.tenant_id, p.manager_id
		FROM leases le
		JOIN properties p ON p.id = le.property_id
		WHERE le.id = $1`, leaseID)
	if database.IsNotFound(err) {
		return nil, apperrors.NewNotFoundError("Lease not found")
	}
	if err != nil {
		return nil, s.internal(err)
	}
	if principal.UserID != parties.TenantID && principal.UserID != parties.ManagerID {
		return nil, apperrors.NewForbiddenError("")
	}

	payments := []*models.Payment{}
	err = s.db.DB.SelectContext(ctx, &payments, `
		SELECT id, lease_id, amount_due, amount_paid, due_date, payment_date, payment_status
		FROM payments
		WHERE lease_id = $1
		ORDER BY due_date`, leaseID)
	if err != nil {
		return nil, s.internal(err)
	}

	return &Output{Success: true, Payments: payments}, nil
}

func (s *Service) internal(err error) error {
	s.logger.Error("list payments failed", map[string]interface{}{"error": err.Error()})
	return apperrors.NewInternalError("Error retrieving payments", err)
}
