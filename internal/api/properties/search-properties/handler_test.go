package searchproperties

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"livest/internal/common/database"
	"livest/internal/common/logger"
	"livest/internal/models"
	"livest/internal/queries/querytest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPostgresHandler(t *testing.T) (*Handler, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := NewService(ServiceDependencies{
		DB:     database.NewPostgresFromDB(db),
		Logger: logger.NewTestLogger(t),
	}, DefaultConfig())
	return NewHandler(svc), mock
}

func doSearch(h http.Handler, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/search?"+query, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

var loft = &models.Property{
	ID: "p1", Name: "Harbour Loft", PricePerMonth: 1000, Beds: 2, PropertyType: models.PropertyTypeApartment,
	LocationID: "l1", ManagerID: "m1", CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	Location: &models.Location{Address: "1 Quay St", City: "Lisbon", Coordinates: &models.Coordinates{Longitude: -9.14, Latitude: 38.72}},
}

// ==========================
// Postgres backend
// ==========================

func TestHandler_NoFiltersListsEverything(t *testing.T) {
	h, mock := newPostgresHandler(t)
	mock.ExpectQuery(`FROM properties p JOIN locations l ON l.id = p.location_id$`).
		WillReturnRows(querytest.PropertyRows(loft))

	rec := doSearch(h, "")

	require.Equal(t, http.StatusOK, rec.Code)
	var out Output
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.True(t, out.Success)
	require.Len(t, out.Properties, 1)
	assert.Equal(t, &models.Coordinates{Longitude: -9.14, Latitude: 38.72}, out.Properties[0].Location.Coordinates)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_CombinesFiltersWithAnd(t *testing.T) {
	h, mock := newPostgresHandler(t)
	mock.ExpectQuery(`WHERE p.price_per_month >= \$1 AND p.price_per_month <= \$2 AND p.beds = \$3$`).
		WithArgs(900.0, 1500.0, 2.0).
		WillReturnRows(querytest.PropertyRows(loft))

	rec := doSearch(h, "priceMin=900&priceMax=1500&beds=2")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_GeoFilterUsesFixedRadius(t *testing.T) {
	h, mock := newPostgresHandler(t)
	mock.ExpectQuery(`WHERE ST_DWithin\(l.coordinates, ST_SetSRID\(ST_MakePoint\(\$1, \$2\), 4326\)::geography, \$3\)`).
		WithArgs(-9.14, 38.72, 1000.0).
		WillReturnRows(sqlmock.NewRows(querytest.PropertyColumns))

	rec := doSearch(h, "latitude=38.72&longitude=-9.14")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"properties":[]}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_InvalidFilterIsBadRequest(t *testing.T) {
	h, mock := newPostgresHandler(t)

	rec := doSearch(h, "priceMin=abc")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "priceMin must be a number")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_DatabaseFailure(t *testing.T) {
	h, mock := newPostgresHandler(t)
	mock.ExpectQuery(`FROM properties p`).WillReturnError(errors.New("relation \"locations\" does not exist"))

	rec := doSearch(h, "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Error retrieving properties: relation \"locations\" does not exist"}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Elasticsearch backend
// ==========================

func newElasticsearchHandler(t *testing.T, handler http.HandlerFunc) *Handler {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.Backend = "elasticsearch"
	svc := NewService(ServiceDependencies{
		Elasticsearch: &database.ElasticsearchClient{Client: client},
		Logger:        logger.NewTestLogger(t),
	}, cfg)
	return NewHandler(svc)
}

func TestHandler_ElasticsearchBackend(t *testing.T) {
	var gotPath string
	var gotQuery map[string]interface{}
	h := newElasticsearchHandler(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotQuery)
		_, _ = w.Write([]byte(`{"hits":{"hits":[{"_source":{"id":"p1","name":"Harbour Loft","beds":2,
			"location":{"address":"1 Quay St","coordinates":{"longitude":-9.14,"latitude":38.72}},
			"geo":{"lat":38.72,"lon":-9.14},"leaseStartDates":[]}}]}}`))
	})

	rec := doSearch(h, "beds=2&latitude=38.72&longitude=-9.14")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/properties/_search", gotPath)
	require.Contains(t, gotQuery, "query")
	assert.Contains(t, gotQuery["query"], "bool")

	var out Output
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out.Properties, 1)
	assert.Equal(t, "Harbour Loft", out.Properties[0].Name)
	assert.Equal(t, "1 Quay St", out.Properties[0].Location.Address)
}

func TestHandler_ElasticsearchFailure(t *testing.T) {
	h := newElasticsearchHandler(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"type":"parsing_exception"}}`))
	})

	rec := doSearch(h, "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
