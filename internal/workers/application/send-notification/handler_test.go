// internal/workers/application/send-notification/handler_test.go
package sendnotification

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"livest/internal/common/config"
	apperrors "livest/internal/common/errors"
	"livest/internal/common/logger"
	"livest/internal/models"
	"livest/internal/queries/querytest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Mock Implementations
// ==========================

type MockSESService struct {
	calls []*ses.SendEmailInput
	err   error
}

func (m *MockSESService) SendEmail(_ context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	m.calls = append(m.calls, params)
	if m.err != nil {
		return nil, m.err
	}
	return &ses.SendEmailOutput{}, nil
}

type MockSNSService struct {
	calls []*sns.PublishInput
	err   error
}

func (m *MockSNSService) Publish(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	m.calls = append(m.calls, params)
	if m.err != nil {
		return nil, m.err
	}
	return &sns.PublishOutput{}, nil
}

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		EmailEnabled: true,
		SMSEnabled:   true,
		FromEmail:    "noreply@livest.test",
		SMSSenderID:  "Livest",
		AWSRegion:    "us-east-1",
		Timeout:      5 * time.Second,
	}
}

func newHandler(t *testing.T, cfg *Config, db *sqlx.DB) (*Handler, *MockSESService, *MockSNSService) {
	sesMock := &MockSESService{}
	snsMock := &MockSNSService{}
	return NewHandler(cfg, db, sesMock, snsMock, logger.NewTestLogger(t)), sesMock, snsMock
}

func decidedInput(status models.ApplicationStatus) *Input {
	return &Input{
		ApplicationID: "app-1",
		Status:        string(status),
		PropertyID:    "prop-1",
		PropertyName:  "Sunset Loft",
		TenantID:      "tenant-1",
		TenantEmail:   "tenant@example.com",
		TenantPhone:   "+15550001111",
		ManagerID:     "manager-1",
		LeaseID:       "lease-1",
	}
}

var getUserQuery = regexp.QuoteMeta(`SELECT id, name, email, phone_number, image, role, created_at FROM users WHERE id = $1`)

// ==========================
// Core Functionality Tests
// ==========================

func TestExecute_ApprovedNotifiesTenantByEmailAndSMS(t *testing.T) {
	h, sesMock, snsMock := newHandler(t, createTestConfig(), nil)

	out, err := h.Execute(context.Background(), decidedInput(models.ApplicationStatusApproved))
	require.NoError(t, err)

	assert.Equal(t, StatusSent, out.Status)
	assert.Equal(t, string(models.NotificationApplicationApproved), out.NotificationType)
	assert.Equal(t, RecipientTypeTenant, out.RecipientType)
	assert.Equal(t, "tenant-1", out.RecipientID)
	assert.NotEmpty(t, out.NotificationID)

	require.Len(t, sesMock.calls, 1)
	email := sesMock.calls[0]
	assert.Equal(t, []string{"tenant@example.com"}, email.Destination.ToAddresses)
	assert.Equal(t, "noreply@livest.test", *email.Source)
	assert.Equal(t, "Your application for Sunset Loft was approved", *email.Message.Subject.Data)
	assert.Contains(t, *email.Message.Body.Text.Data, "lease-1")

	require.Len(t, snsMock.calls, 1)
	assert.Equal(t, "+15550001111", *snsMock.calls[0].PhoneNumber)
	assert.Contains(t, snsMock.calls[0].MessageAttributes, "AWS.SNS.SMS.SenderID")
}

func TestExecute_DeniedNotifiesTenant(t *testing.T) {
	h, sesMock, _ := newHandler(t, createTestConfig(), nil)

	out, err := h.Execute(context.Background(), decidedInput(models.ApplicationStatusDenied))
	require.NoError(t, err)

	assert.Equal(t, StatusSent, out.Status)
	assert.Equal(t, string(models.NotificationApplicationDenied), out.NotificationType)
	require.Len(t, sesMock.calls, 1)
	assert.Equal(t, "Update on your application for Sunset Loft", *sesMock.calls[0].Message.Subject.Data)
}

func TestExecute_SubmittedNotifiesManagerByEmailOnly(t *testing.T) {
	h, sesMock, snsMock := newHandler(t, createTestConfig(), nil)

	in := decidedInput(models.ApplicationStatusPending)
	in.TenantName = "Jane Doe"
	in.ManagerEmail = "manager@example.com"
	in.ManagerPhone = "+15550002222"

	out, err := h.Execute(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, StatusSent, out.Status)
	assert.Equal(t, RecipientTypeManager, out.RecipientType)
	assert.Equal(t, "manager-1", out.RecipientID)

	require.Len(t, sesMock.calls, 1)
	assert.Equal(t, []string{"manager@example.com"}, sesMock.calls[0].Destination.ToAddresses)
	assert.Contains(t, *sesMock.calls[0].Message.Body.Text.Data, "Jane Doe has applied to rent Sunset Loft")
	assert.Empty(t, snsMock.calls, "submitted notifications have no SMS template")
}

func TestExecute_LooksUpMissingContact(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(getUserQuery).
		WithArgs("tenant-1").
		WillReturnRows(querytest.UserRows(&models.User{
			ID:          "tenant-1",
			Name:        "Jane Doe",
			Email:       "jane@example.com",
			PhoneNumber: "+15550003333",
			Role:        models.UserRoleTenant,
			CreatedAt:   time.Now(),
		}))

	h, sesMock, snsMock := newHandler(t, createTestConfig(), sqlx.NewDb(db, "postgres"))

	in := decidedInput(models.ApplicationStatusApproved)
	in.TenantEmail = ""
	in.TenantPhone = ""

	out, err := h.Execute(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, StatusSent, out.Status)

	require.Len(t, sesMock.calls, 1)
	assert.Equal(t, []string{"jane@example.com"}, sesMock.calls[0].Destination.ToAddresses)
	require.Len(t, snsMock.calls, 1)
	assert.Equal(t, "+15550003333", *snsMock.calls[0].PhoneNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Degraded Delivery Tests
// ==========================

func TestExecute_ChannelsDisabled(t *testing.T) {
	cfg := createTestConfig()
	cfg.EmailEnabled = false
	cfg.SMSEnabled = false
	h, sesMock, snsMock := newHandler(t, cfg, nil)

	out, err := h.Execute(context.Background(), decidedInput(models.ApplicationStatusApproved))
	require.NoError(t, err)

	assert.Equal(t, StatusDisabled, out.Status)
	assert.Empty(t, sesMock.calls)
	assert.Empty(t, snsMock.calls)
}

func TestExecute_RecipientNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(getUserQuery).
		WithArgs("tenant-1").
		WillReturnRows(sqlmock.NewRows(querytest.UserColumns))

	h, sesMock, _ := newHandler(t, createTestConfig(), sqlx.NewDb(db, "postgres"))

	in := decidedInput(models.ApplicationStatusDenied)
	in.TenantEmail = ""
	in.TenantPhone = ""

	out, err := h.Execute(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, StatusDisabled, out.Status)
	assert.Empty(t, sesMock.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecute_RecipientLookupFailsIsRetryable(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(getUserQuery).
		WithArgs("tenant-1").
		WillReturnError(errors.New("connection reset"))

	h, _, _ := newHandler(t, createTestConfig(), sqlx.NewDb(db, "postgres"))

	in := decidedInput(models.ApplicationStatusDenied)
	in.TenantEmail = ""
	in.TenantPhone = ""

	_, err = h.Execute(context.Background(), in)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeQueryExecutionFailed, apperrors.CodeOf(err))
	assert.True(t, apperrors.AsStandard(err).Retryable)
}

func TestExecute_EmailFailureReportsFailed(t *testing.T) {
	h, sesMock, snsMock := newHandler(t, createTestConfig(), nil)
	sesMock.err = errors.New("throttled")

	out, err := h.Execute(context.Background(), decidedInput(models.ApplicationStatusApproved))
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, out.Status)
	assert.Empty(t, snsMock.calls)
}

func TestExecute_SMSFailureReportsFailed(t *testing.T) {
	h, sesMock, snsMock := newHandler(t, createTestConfig(), nil)
	snsMock.err = errors.New("opted out")

	out, err := h.Execute(context.Background(), decidedInput(models.ApplicationStatusApproved))
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, out.Status)
	assert.Len(t, sesMock.calls, 1)
}

// ==========================
// Input Validation Tests
// ==========================

func TestExecute_InvalidInput(t *testing.T) {
	h, _, _ := newHandler(t, createTestConfig(), nil)

	tests := []struct {
		name  string
		input *Input
	}{
		{"nil input", nil},
		{"missing application id", &Input{Status: "Approved"}},
		{"unknown status", &Input{ApplicationID: "app-1", Status: "Archived"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.Execute(context.Background(), tt.input)
			require.Error(t, err)
			assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.CodeOf(err))
		})
	}
}

// ==========================
// Helper Tests
// ==========================

func TestRenderTemplate(t *testing.T) {
	tests := []struct {
		name     string
		tmpl     string
		data     map[string]interface{}
		expected string
	}{
		{"known keys", "Hi {{name}}, ref {{id}}", map[string]interface{}{"name": "Ana", "id": 7}, "Hi Ana, ref 7"},
		{"missing keys removed", "Hi {{name}}{{suffix}}!", map[string]interface{}{"name": "Ana"}, "Hi Ana!"},
		{"nil value renders empty", "[{{v}}]", map[string]interface{}{"v": nil}, "[]"},
		{"unterminated placeholder kept", "Hi {{name", map[string]interface{}{}, "Hi {{name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, renderTemplate(tt.tmpl, tt.data))
		})
	}
}

func TestLoadConfig(t *testing.T) {
	cfg := &config.Config{Workers: map[string]config.WorkerConfig{
		TaskType: {Enabled: true, Timeout: 12000},
	}}
	cfg.Notifications.Email.Enabled = true
	cfg.Notifications.SMS.Enabled = true
	cfg.Integrations.AWS.Region = "eu-west-1"
	cfg.Integrations.AWS.SES.Enabled = true
	cfg.Integrations.AWS.SES.FromEmail = "ses@livest.test"
	cfg.Integrations.AWS.SNS.Enabled = false
	cfg.Integrations.AWS.SNS.DefaultSMSSenderID = "Livest"

	c := LoadConfig(cfg)
	assert.True(t, c.EmailEnabled)
	assert.False(t, c.SMSEnabled, "SNS disabled in integrations")
	assert.Equal(t, "ses@livest.test", c.FromEmail)
	assert.Equal(t, "Livest", c.SMSSenderID)
	assert.Equal(t, "eu-west-1", c.AWSRegion)
	assert.Equal(t, 12*time.Second, c.Timeout)

	cfg.Notifications.Email.FromEmail = "notify@livest.test"
	assert.Equal(t, "notify@livest.test", LoadConfig(cfg).FromEmail)
}
