package createapplication

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"livest/internal/common/auth"
	"livest/internal/common/camunda"
	"livest/internal/common/database"
	"livest/internal/common/logger"
	"livest/internal/models"
	"livest/internal/queries/querytest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helpers
// ==========================

const (
	existsQuery  = `SELECT EXISTS\(SELECT 1 FROM properties WHERE id = \$1\)`
	pendingQuery = `SELECT EXISTS\( SELECT 1 FROM applications WHERE tenant_id = \$1 AND property_id = \$2 AND status = \$3 \)`
	validBody    = `{
		"applicationDate": "2025-05-10T09:30:00Z",
		"propertyId": "p1",
		"name": "Tom Tenant",
		"email": "tom@example.com",
		"phoneNumber": "5551234567",
		"message": "Quiet, no pets",
		"status": "Approved"
	}`
)

var created = time.Date(2025, 5, 10, 9, 30, 0, 0, time.UTC)

type recordingPublisher struct {
	messages []camunda.Message
}

func (r *recordingPublisher) Publish(_ context.Context, msg camunda.Message) error {
	r.messages = append(r.messages, msg)
	return nil
}

func newTestHandler(t *testing.T) (*Handler, sqlmock.Sqlmock, *recordingPublisher) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	pub := &recordingPublisher{}
	svc := NewService(ServiceDependencies{
		DB:        database.NewPostgresFromDB(db),
		Publisher: pub,
		Logger:    logger.NewTestLogger(t),
	}, DefaultConfig())
	return NewHandler(svc, logger.NewNoOpLogger()), mock, pub
}

func tenantPrincipal() *auth.Principal { return &auth.Principal{UserID: "t1", Role: auth.RoleTenant} }

func doRequest(h http.Handler, principal *auth.Principal, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/applications", strings.NewReader(body))
	if principal != nil {
		req = req.WithContext(auth.WithPrincipal(req.Context(), principal))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func expectGuards(mock sqlmock.Sqlmock, propertyExists, pending bool) {
	mock.ExpectQuery(existsQuery).WithArgs("p1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(propertyExists))
	if !propertyExists {
		return
	}
	mock.ExpectQuery(pendingQuery).WithArgs("t1", "p1", "Pending").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(pending))
}

func expectInsert(mock sqlmock.Sqlmock) *sqlmock.ExpectedExec {
	return mock.ExpectExec(`INSERT INTO applications`).
		WithArgs(sqlmock.AnyArg(), created, "Pending", "p1", "t1", "Tom Tenant", "tom@example.com", "5551234567", "Quiet, no pets")
}

// ==========================
// Role Gating
// ==========================

func TestHandler_RoleGating(t *testing.T) {
	tests := []struct {
		name       string
		principal  *auth.Principal
		wantStatus int
	}{
		{"no session", nil, http.StatusUnauthorized},
		{"manager", &auth.Principal{UserID: "m1", Role: auth.RoleManager}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, mock, _ := newTestHandler(t)
			rec := doRequest(h, tt.principal, validBody)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

// ==========================
// Body Validation
// ==========================

func TestHandler_BodyValidation(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{"bad email", `{"applicationDate":"2025-05-10T09:30:00Z","propertyId":"p1","name":"Tom","email":"nope","phoneNumber":"5551234567"}`, "email"},
		{"short phone", `{"applicationDate":"2025-05-10T09:30:00Z","propertyId":"p1","name":"Tom","email":"tom@example.com","phoneNumber":"555"}`, "phoneNumber"},
		{"missing property", `{"applicationDate":"2025-05-10T09:30:00Z","name":"Tom","email":"tom@example.com","phoneNumber":"5551234567"}`, "propertyId"},
		{"bad date", `{"applicationDate":"yesterday","propertyId":"p1","name":"Tom","email":"tom@example.com","phoneNumber":"5551234567"}`, "applicationDate"},
		{"long message", `{"applicationDate":"2025-05-10T09:30:00Z","propertyId":"p1","name":"Tom","email":"tom@example.com","phoneNumber":"5551234567","message":"` + strings.Repeat("x", 501) + `"}`, "message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, mock, _ := newTestHandler(t)
			rec := doRequest(h, tenantPrincipal(), tt.body)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			var body struct {
				Success bool `json:"success"`
				Errors  []struct {
					Field string `json:"field"`
				} `json:"errors"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			require.NotEmpty(t, body.Errors)
			assert.Equal(t, tt.wantField, body.Errors[0].Field)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

// ==========================
// Guards
// ==========================

func TestHandler_PropertyNotFound(t *testing.T) {
	h, mock, _ := newTestHandler(t)
	expectGuards(mock, false, false)

	rec := doRequest(h, tenantPrincipal(), validBody)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Property not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_PendingDuplicateIsConflict(t *testing.T) {
	h, mock, pub := newTestHandler(t)
	expectGuards(mock, true, true)

	rec := doRequest(h, tenantPrincipal(), validBody)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "You already have a pending application for this property")
	assert.Empty(t, pub.messages)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_ConcurrentDuplicateHitsUniqueIndex(t *testing.T) {
	h, mock, _ := newTestHandler(t)
	expectGuards(mock, true, false)
	expectInsert(mock).WillReturnError(&pq.Error{Code: "23505", Constraint: "applications_one_pending_idx"})

	rec := doRequest(h, tenantPrincipal(), validBody)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "You already have a pending application for this property")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_MalformedPropertyIDIsNotFound(t *testing.T) {
	h, mock, pub := newTestHandler(t)
	mock.ExpectQuery(existsQuery).WithArgs("P1").
		WillReturnError(&pq.Error{Code: "22P02", Message: `invalid input syntax for type uuid: "P1"`})

	rec := doRequest(h, tenantPrincipal(), strings.Replace(validBody, `"p1"`, `"P1"`, 1))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Property not found"}`, rec.Body.String())
	assert.Empty(t, pub.messages)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_DatabaseFailure(t *testing.T) {
	h, mock, _ := newTestHandler(t)
	mock.ExpectQuery(existsQuery).WithArgs("p1").WillReturnError(errors.New("connection refused"))

	rec := doRequest(h, tenantPrincipal(), validBody)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Error creating application: connection refused"}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Success
// ==========================

func TestHandler_CreatesPendingApplication(t *testing.T) {
	h, mock, pub := newTestHandler(t)
	expectGuards(mock, true, false)
	expectInsert(mock).WillReturnResult(sqlmock.NewResult(0, 1))

	msg := "Quiet, no pets"
	app := &models.Application{
		ID: "a1", ApplicationDate: created, Status: models.ApplicationStatusPending, PropertyID: "p1", TenantID: "t1",
		Name: "Tom Tenant", Email: "tom@example.com", PhoneNumber: "5551234567", Message: &msg,
		CreatedAt: created, UpdatedAt: created,
	}
	prop := &models.Property{
		ID: "p1", Name: "Harbour Loft", PricePerMonth: 1800, PropertyType: models.PropertyTypeApartment,
		LocationID: "l1", ManagerID: "m1", CreatedAt: created,
		Location: &models.Location{Address: "1 Quay St", City: "Auckland"},
	}
	manager := &models.User{ID: "m1", Name: "Mia", Email: "mia@example.com", PhoneNumber: "5550000000", Role: models.UserRoleManager, CreatedAt: created}
	tenant := &models.User{ID: "t1", Name: "Tom", Email: "tom@example.com", Role: models.UserRoleTenant, CreatedAt: created}

	// the application id is generated, so the reload matches any id
	mock.ExpectQuery(`FROM applications a WHERE a.id = \$1`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(querytest.ApplicationRows(app))
	querytest.ExpectProperty(mock, prop, manager)
	querytest.ExpectUser(mock, tenant)

	rec := doRequest(h, tenantPrincipal(), validBody)

	require.Equal(t, http.StatusCreated, rec.Code)
	var out Output
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.True(t, out.Success)
	assert.Equal(t, models.ApplicationStatusPending, out.Application.Status)
	assert.Equal(t, "1 Quay St", out.Application.Property.Location.Address)
	assert.Equal(t, "m1", out.Application.Property.Manager.ID)
	assert.Equal(t, "t1", out.Application.Tenant.ID)
	assert.Nil(t, out.Application.Lease)

	require.Len(t, pub.messages, 1)
	assert.Equal(t, camunda.MessageApplicationSubmitted, pub.messages[0].Name)
	assert.Equal(t, "mia@example.com", pub.messages[0].Variables["managerEmail"])
	assert.NoError(t, mock.ExpectationsWereMet())
}
