package createproperty

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"livest/internal/common/auth"
	"livest/internal/common/camunda"
	"livest/internal/common/database"
	apperrors "livest/internal/common/errors"
	"livest/internal/common/geocoding"
	"livest/internal/common/logger"
	"livest/internal/common/search"
	"livest/internal/models"
	"livest/internal/queries/querytest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGeocoder struct {
	point geocoding.Point
	err   error
	got   geocoding.Address
}

func (f *fakeGeocoder) Geocode(_ context.Context, addr geocoding.Address) (geocoding.Point, error) {
	f.got = addr
	return f.point, f.err
}

type fakeIndexer struct {
	docs []search.Document
	err  error
}

func (f *fakeIndexer) Index(_ context.Context, doc search.Document) error {
	f.docs = append(f.docs, doc)
	return f.err
}

type recordingPublisher struct {
	messages []camunda.Message
}

func (r *recordingPublisher) Publish(_ context.Context, msg camunda.Message) error {
	r.messages = append(r.messages, msg)
	return nil
}

type fixture struct {
	handler   *Handler
	mock      sqlmock.Sqlmock
	geocoder  *fakeGeocoder
	indexer   *fakeIndexer
	publisher *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	f := &fixture{
		mock:      mock,
		geocoder:  &fakeGeocoder{point: geocoding.Point{Longitude: -9.14, Latitude: 38.72}},
		indexer:   &fakeIndexer{},
		publisher: &recordingPublisher{},
	}
	log := logger.NewTestLogger(t)
	svc := NewService(ServiceDependencies{
		DB:        database.NewPostgresFromDB(db),
		Geocoder:  f.geocoder,
		Indexer:   f.indexer,
		Publisher: f.publisher,
		Logger:    log,
	}, DefaultConfig())
	f.handler = NewHandler(svc, log)
	return f
}

func (f *fixture) do(principal *auth.Principal, body interface{}) *httptest.ResponseRecorder {
	var raw []byte
	switch b := body.(type) {
	case string:
		raw = []byte(b)
	default:
		raw, _ = json.Marshal(b)
	}
	req := httptest.NewRequest(http.MethodPost, "/properties", bytes.NewReader(raw))
	if principal != nil {
		req = req.WithContext(auth.WithPrincipal(req.Context(), principal))
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

var manager = &auth.Principal{UserID: "m1", Role: auth.RoleManager}

func validInput() Input {
	return Input{
		Name:          "Harbour Loft",
		Description:   "Two bedrooms by the river",
		PricePerMonth: 1800,
		PhotoURLs:     []string{"https://cdn.example.com/loft.jpg"},
		Amenities:     []string{"Pool"},
		Beds:          2,
		Baths:         1,
		SquareFeet:    850,
		PropertyType:  models.PropertyTypeApartment,
		Address:       "1 Quay St",
		City:          "Lisbon",
		State:         "Lisboa",
		Country:       "Portugal",
		PostalCode:    "1100-001",
	}
}

// ==========================
// Access and validation
// ==========================

func TestHandler_RoleGating(t *testing.T) {
	tests := []struct {
		name      string
		principal *auth.Principal
		want      int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"tenant", &auth.Principal{UserID: "t1", Role: auth.RoleTenant}, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			rec := f.do(tt.principal, validInput())
			assert.Equal(t, tt.want, rec.Code)
			assert.NoError(t, f.mock.ExpectationsWereMet())
		})
	}
}

func TestHandler_MalformedBody(t *testing.T) {
	f := newFixture(t)
	rec := f.do(manager, "{")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Request body must be valid JSON")
}

func TestHandler_ValidationFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(in *Input)
		field  string
	}{
		{"missing name", func(in *Input) { in.Name = "" }, "name"},
		{"negative price", func(in *Input) { in.PricePerMonth = -1 }, "pricePerMonth"},
		{"unknown type", func(in *Input) { in.PropertyType = "Castle" }, "propertyType"},
		{"bad photo url", func(in *Input) { in.PhotoURLs = []string{"not a url"} }, "photoUrls"},
		{"missing city", func(in *Input) { in.City = "" }, "city"},
		{"no square feet", func(in *Input) { in.SquareFeet = 0 }, "squareFeet"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			in := validInput()
			tt.mutate(&in)

			rec := f.do(manager, in)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			var resp apperrors.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			require.NotEmpty(t, resp.Errors)
			assert.Equal(t, tt.field, resp.Errors[0].Field)
			assert.NoError(t, f.mock.ExpectationsWereMet())
		})
	}
}

// ==========================
// Creation
// ==========================

func TestHandler_CreatesLocationAndPropertyInOneTransaction(t *testing.T) {
	f := newFixture(t)
	created := &models.Property{
		ID: "p-new", Name: "Harbour Loft", PricePerMonth: 1800, ManagerID: "m1", LocationID: "l-new",
		PropertyType: models.PropertyTypeApartment,
		Location:     &models.Location{Address: "1 Quay St", Coordinates: &models.Coordinates{Longitude: -9.14, Latitude: 38.72}},
	}

	f.mock.ExpectBegin()
	f.mock.ExpectExec(`INSERT INTO locations`).
		WithArgs(sqlmock.AnyArg(), "1 Quay St", "Lisbon", "Lisboa", "Portugal", "1100-001", -9.14, 38.72).
		WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectExec(`INSERT INTO properties`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectCommit()
	f.mock.ExpectQuery(`JOIN locations l ON l.id = p.location_id WHERE p.id = \$1`).
		WillReturnRows(querytest.PropertyRows(created))
	querytest.ExpectUser(f.mock, &models.User{ID: "m1", Name: "Mia", Role: models.UserRoleManager})

	rec := f.do(manager, validInput())

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var out Output
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.True(t, out.Success)
	assert.Equal(t, "p-new", out.Property.ID)
	assert.Equal(t, "Mia", out.Property.Manager.Name)

	assert.Equal(t, "Lisbon", f.geocoder.got.City)
	require.Len(t, f.indexer.docs, 1)
	assert.Equal(t, search.GeoPoint{Lat: 38.72, Lon: -9.14}, f.indexer.docs[0].Geo)
	require.Len(t, f.publisher.messages, 1)
	assert.Equal(t, camunda.MessagePropertyCreated, f.publisher.messages[0].Name)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestHandler_PropertyInsertFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectExec(`INSERT INTO locations`).WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectExec(`INSERT INTO properties`).WillReturnError(errors.New("violates foreign key constraint"))
	f.mock.ExpectRollback()

	rec := f.do(manager, validInput())

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Error creating property: violates foreign key constraint"}`, rec.Body.String())
	assert.Empty(t, f.indexer.docs)
	assert.Empty(t, f.publisher.messages)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestHandler_GeocoderFailureStopsBeforeWriting(t *testing.T) {
	f := newFixture(t)
	f.geocoder.err = apperrors.NewGeocodingFailedError("1 Quay St", errors.New("timeout"))

	rec := f.do(manager, validInput())

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestHandler_IndexFailureDoesNotFailRequest(t *testing.T) {
	f := newFixture(t)
	f.indexer.err = errors.New("es unavailable")
	created := &models.Property{ID: "p-new", ManagerID: "m1", PropertyType: models.PropertyTypeApartment}

	f.mock.ExpectBegin()
	f.mock.ExpectExec(`INSERT INTO locations`).WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectExec(`INSERT INTO properties`).WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectCommit()
	f.mock.ExpectQuery(`WHERE p.id = \$1`).WillReturnRows(querytest.PropertyRows(created))
	querytest.ExpectUser(f.mock, &models.User{ID: "m1", Role: models.UserRoleManager})

	rec := f.do(manager, validInput())

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Len(t, f.indexer.docs, 1)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}
