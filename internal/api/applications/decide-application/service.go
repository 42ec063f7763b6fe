// Package decideapplication approves or denies a pending rental application.
// Approval creates the lease and links the tenant to the property in the
// same transaction that flips the application status.
package decideapplication

import (
	"context"
	"errors"
	"time"

	"livest/internal/common/auth"
	"livest/internal/common/camunda"
	"livest/internal/common/database"
	apperrors "livest/internal/common/errors"
	"livest/internal/common/logger"
	"livest/internal/common/metrics"
	"livest/internal/common/observability"
	"livest/internal/models"
	"livest/internal/queries"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const OperationName = "decide-application"

type Service struct {
	config    *Config
	db        *database.PostgresClient
	publisher camunda.Publisher
	obs       *observability.Observability
	logger    logger.Logger
	now       func() time.Time
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	if config == nil {
		config = DefaultConfig()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	publisher := deps.Publisher
	if publisher == nil {
		publisher = camunda.NoopPublisher{}
	}
	return &Service{
		config:    config,
		db:        deps.DB,
		publisher: publisher,
		obs:       deps.Observability,
		logger:    deps.Logger.WithFields(map[string]interface{}{"operation": OperationName}),
		now:       now,
	}
}

// Execute decides the application. Checks run in a fixed order: caller role,
// requested status, existence, ownership, current status.
func (s *Service) Execute(ctx context.Context, principal *auth.Principal, input *Input) (*Output, error) {
	start := time.Now()
	out, err := s.execute(ctx, principal, input)
	s.obs.RecordOperation(ctx, OperationName, outcome(err), time.Since(start))
	return out, err
}

func (s *Service) execute(ctx context.Context, principal *auth.Principal, input *Input) (*Output, error) {
	if err := auth.RequireRole(principal, auth.RoleManager); err != nil {
		return nil, err
	}
	if err := validateStatus(input.Status); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	var target decisionTarget
	err := s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		target, err = s.lockTarget(ctx, tx, input.ApplicationID)
		if err != nil {
			return err
		}
		if target.ManagerID != principal.UserID {
			return apperrors.NewForbiddenError("You are not the manager of this property")
		}
		if target.Status != models.ApplicationStatusPending {
			return apperrors.NewConflictError("Application has already been " + string(target.Status))
		}

		if input.Status == models.ApplicationStatusApproved {
			return s.approve(ctx, tx, target)
		}
		return s.deny(ctx, tx, target)
	})
	if err != nil {
		return nil, s.wrap(err)
	}

	metrics.ApplicationDecisions.WithLabelValues(string(input.Status)).Inc()

	app, err := queries.LoadApplication(ctx, s.db.DB, input.ApplicationID)
	if err != nil {
		return nil, s.wrap(err)
	}

	s.logger.Info("application decided", map[string]interface{}{
		"applicationId": app.ID,
		"status":        app.Status,
		"managerId":     principal.UserID,
		"leaseId":       app.LeaseID,
	})

	camunda.PublishBestEffort(ctx, s.publisher, s.logger, decidedMessage(app))

	return &Output{
		Success:     true,
		Application: app,
		Message:     "Application updated successfully",
	}, nil
}

func validateStatus(status models.ApplicationStatus) error {
	switch status {
	case "":
		return apperrors.NewInvalidInputError("Status is required to update the application")
	case models.ApplicationStatusPending:
		return apperrors.NewInvalidInputError("Status can't be pending")
	case models.ApplicationStatusApproved, models.ApplicationStatusDenied:
		return nil
	default:
		return apperrors.NewInvalidInputError("Status must be Approved or Denied")
	}
}

func (s *Service) lockTarget(ctx context.Context, tx *sqlx.Tx, applicationID string) (decisionTarget, error) {
	var target decisionTarget
	err := tx.GetContext(ctx, &target, `
		SELECT a.id, a.status, a.property_id, a.tenant_id,
		       p.manager_id, p.price_per_month, p.security_deposit
		FROM applications a
		JOIN properties p ON p.id = a.property_id
		WHERE a.id = $1
		FOR UPDATE OF a`, applicationID)
	if database.IsNotFound(err) {
		return target, apperrors.NewNotFoundError("Application not found")
	}
	return target, err
}

// approve copies rent and deposit from the property row as read inside the
// transaction; later price changes do not touch the lease.
func (s *Service) approve(ctx context.Context, tx *sqlx.Tx, target decisionTarget) error {
	leaseID := uuid.NewString()
	startDate := s.now().UTC()
	endDate := startDate.AddDate(1, 0, 0)

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO leases (id, start_date, end_date, rent, deposit, property_id, tenant_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		leaseID, startDate, endDate, target.PricePerMonth, target.SecurityDeposit,
		target.PropertyID, target.TenantID,
	); err != nil {
		return err
	}

	if err := ensureTenant(ctx, tx, target.PropertyID, target.TenantID); err != nil {
		return err
	}

	_, err := tx.ExecContext(ctx, `
		UPDATE applications
		SET status = $1, lease_id = $2, updated_at = now()
		WHERE id = $3`,
		models.ApplicationStatusApproved, leaseID, target.ID,
	)
	return err
}

func (s *Service) deny(ctx context.Context, tx *sqlx.Tx, target decisionTarget) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE applications
		SET status = $1, updated_at = now()
		WHERE id = $2`,
		models.ApplicationStatusDenied, target.ID,
	)
	return err
}

// ensureTenant adds tenantID to the property's tenant set; an existing
// membership is left untouched.
func ensureTenant(ctx context.Context, tx *sqlx.Tx, propertyID, tenantID string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO property_tenants (property_id, tenant_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`,
		propertyID, tenantID,
	)
	return err
}

func (s *Service) wrap(err error) error {
	var stdErr *apperrors.StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	s.logger.Error("decision failed", map[string]interface{}{"error": err.Error()})
	return apperrors.NewInternalError("Error updating application", err)
}

func decidedMessage(app *models.Application) camunda.Message {
	vars := map[string]interface{}{
		"applicationId": app.ID,
		"status":        string(app.Status),
		"propertyId":    app.PropertyID,
		"tenantId":      app.TenantID,
	}
	if app.Property != nil {
		vars["managerId"] = app.Property.ManagerID
		vars["propertyName"] = app.Property.Name
	}
	if app.LeaseID != nil {
		vars["leaseId"] = *app.LeaseID
	}
	return camunda.Message{
		Name:           camunda.MessageApplicationDecided,
		CorrelationKey: app.ID,
		Variables:      vars,
	}
}

func outcome(err error) string {
	if err == nil {
		return "success"
	}
	return string(apperrors.AsStandard(err).Code)
}
