// Package createapplication submits a tenant's application for a property.
package createapplication

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
)

const (
	OperationName = "create-application"

	// pendingIndex enforces one Pending application per (tenant, property).
	pendingIndex = "applications_one_pending_idx"

	duplicateMessage = "You already have a pending application for this property"
)

type Service struct {
	config    *Config
	db        *database.PostgresClient
	publisher camunda.Publisher
	obs       *observability.Observability
	logger    logger.Logger
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	if config == nil {
		config = DefaultConfig()
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
	}
}

func (s *Service) Execute(ctx context.Context, principal *auth.Principal, input *Input) (*Output, error) {
	start := time.Now()
	out, err := s.execute(ctx, principal, input)

	result := "created"
	if err != nil {
		result = string(apperrors.AsStandard(err).Code)
	}
	metrics.ApplicationsCreated.WithLabelValues(result).Inc()
	s.obs.RecordOperation(ctx, OperationName, result, time.Since(start))
	return out, err
}

func (s *Service) execute(ctx context.Context, principal *auth.Principal, input *Input) (*Output, error) {
	if err := auth.RequireRole(principal, auth.RoleTenant); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	exists, err := queries.PropertyExists(ctx, s.db.DB, input.PropertyID)
	if err != nil && !database.IsNotFound(err) {
		return nil, s.internal(err)
	}
	if !exists {
		return nil, apperrors.NewNotFoundError("Property not found")
	}

	var pending bool
	err = s.db.DB.GetContext(ctx, &pending, `
		SELECT EXISTS(
			SELECT 1 FROM applications
			WHERE tenant_id = $1 AND property_id = $2 AND status = $3
		)`, principal.UserID, input.PropertyID, models.ApplicationStatusPending)
	if err != nil {
		return nil, s.internal(err)
	}
	if pending {
		return nil, apperrors.NewConflictError(duplicateMessage)
	}

	// The partial unique index closes the window between the check above
	// and this insert.
	appID := uuid.NewString()
	_, err = s.db.DB.ExecContext(ctx, `
		INSERT INTO applications (
			id, application_date, status, property_id, tenant_id,
			name, email, phone_number, message
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		appID,
		input.ApplicationDate.UTC(),
		models.ApplicationStatusPending,
		input.PropertyID,
		principal.UserID,
		input.Name,
		input.Email,
		input.PhoneNumber,
		input.Message,
	)
	if database.IsUniqueViolation(err, pendingIndex) {
		return nil, apperrors.NewConflictError(duplicateMessage)
	}
	if err != nil {
		return nil, s.internal(err)
	}

	app, err := queries.LoadApplication(ctx, s.db.DB, appID)
	if err != nil {
		return nil, s.internal(err)
	}

	s.logger.Info("application created", map[string]interface{}{
		"applicationId": appID,
		"tenantId":      principal.UserID,
		"propertyId":    input.PropertyID,
	})

	camunda.PublishBestEffort(ctx, s.publisher, s.logger, submittedMessage(app))

	return &Output{
		Success:     true,
		Application: app,
		Message:     "Application created successfully",
	}, nil
}

func (s *Service) internal(err error) error {
	var stdErr *apperrors.StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	s.logger.Error("create application failed", map[string]interface{}{"error": err.Error()})
	return apperrors.NewInternalError("Error creating application", err)
}

func submittedMessage(app *models.Application) camunda.Message {
	vars := map[string]interface{}{
		"applicationId": app.ID,
		"status":        string(app.Status),
		"propertyId":    app.PropertyID,
		"tenantId":      app.TenantID,
		"tenantName":    app.Name,
		"tenantEmail":   app.Email,
		"tenantPhone":   app.PhoneNumber,
	}
	if app.Property != nil {
		vars["propertyName"] = app.Property.Name
		vars["managerId"] = app.Property.ManagerID
	}
	if app.Manager != nil {
		vars["managerEmail"] = app.Manager.Email
		vars["managerPhone"] = app.Manager.PhoneNumber
	}
	return camunda.Message{
		Name:           camunda.MessageApplicationSubmitted,
		CorrelationKey: app.ID,
		Variables:      vars,
	}
}
