// internal/workers/application/send-notification/handler.go
package sendnotification

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	awsclient "livest/internal/common/aws"
	apperrors "livest/internal/common/errors"
	"livest/internal/common/logger"
	"livest/internal/common/metrics"
	"livest/internal/models"
	"livest/internal/queries"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const (
	TaskType = "send-application-notification"
)

type Handler struct {
	config     *Config
	db         *sqlx.DB
	logger     logger.Logger
	sesClient  awsclient.EmailSender
	snsClient  awsclient.SMSSender
	errHandler *apperrors.JobErrorHandler
}

func NewHandler(config *Config, db *sqlx.DB, ses awsclient.EmailSender, sns awsclient.SMSSender, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		db:         db,
		logger:     log,
		sesClient:  ses,
		snsClient:  sns,
		errHandler: apperrors.NewJobErrorHandler(log),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	defer func() {
		metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	}()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, apperrors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err)))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.Execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, err)
		return
	}

	h.completeJob(client, job, output)
}

// Execute sends the notification an application status change triggers.
// Delivery failures are reported in the output status, not as errors.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil || input.ApplicationID == "" {
		return nil, apperrors.NewInvalidInputError("applicationId is required")
	}

	notificationType, recipientType, ok := notificationFor(models.ApplicationStatus(input.Status))
	if !ok {
		return nil, apperrors.NewInvalidInputError(fmt.Sprintf("unsupported application status %q", input.Status))
	}

	recipientID, email, phone := input.TenantID, input.TenantEmail, input.TenantPhone
	if recipientType == RecipientTypeManager {
		recipientID, email, phone = input.ManagerID, input.ManagerEmail, input.ManagerPhone
	}

	output := &Output{
		NotificationID:   uuid.New().String(),
		NotificationType: string(notificationType),
		RecipientID:      recipientID,
		RecipientType:    recipientType,
		Status:           StatusDisabled,
		SentAt:           time.Now().UTC().Format(time.RFC3339),
	}

	if email == "" && phone == "" {
		user, err := h.lookupRecipient(ctx, recipientID)
		if errors.Is(err, sql.ErrNoRows) {
			h.logger.Warn("recipient not found", map[string]interface{}{
				"recipientId": recipientID,
				"type":        recipientType,
			})
			return output, nil
		}
		if err != nil {
			return nil, apperrors.NewQueryExecutionFailedError("get-user", err)
		}
		email, phone = user.Email, user.PhoneNumber
	}

	template := templates[notificationType]
	data := map[string]interface{}{
		"applicationId": input.ApplicationID,
		"propertyName":  input.PropertyName,
		"tenantName":    input.TenantName,
		"leaseId":       input.LeaseID,
		"status":        input.Status,
	}

	emailSent := false
	smsSent := false

	if h.config.EmailEnabled && email != "" {
		subject := renderTemplate(template.Subject, data)
		body := renderTemplate(template.Body, data)
		if _, err := h.sesClient.SendEmail(ctx, awsclient.NewEmail(h.config.FromEmail, email, subject, body)); err != nil {
			h.logger.Error("email send failed", map[string]interface{}{
				"error":         err.Error(),
				"applicationId": input.ApplicationID,
			})
			output.Status = StatusFailed
			return output, nil
		}
		emailSent = true
	}

	if h.config.SMSEnabled && phone != "" && template.SMS != "" {
		message := renderTemplate(template.SMS, data)
		if _, err := h.snsClient.Publish(ctx, awsclient.NewSMS(phone, message, h.config.SMSSenderID)); err != nil {
			h.logger.Error("SMS send failed", map[string]interface{}{
				"error":         err.Error(),
				"applicationId": input.ApplicationID,
			})
			output.Status = StatusFailed
			return output, nil
		}
		smsSent = true
	}

	if emailSent || smsSent {
		output.Status = StatusSent
	}

	h.logger.Info("notification processed", map[string]interface{}{
		"applicationId": input.ApplicationID,
		"type":          notificationType,
		"status":        output.Status,
	})
	return output, nil
}

func (h *Handler) lookupRecipient(ctx context.Context, id string) (*models.User, error) {
	if id == "" || h.db == nil {
		return nil, sql.ErrNoRows
	}
	return queries.GetUser(ctx, h.db, id)
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if _, err = cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(apperrors.CodeOf(err))).Inc()
	h.errHandler.HandleJobError(context.Background(), client, job, err)
}
