package searchproperties

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"livest/internal/common/database"
	"livest/internal/common/search"
	"livest/internal/models"
	"livest/internal/queries"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// Backend runs a search for one set of filters.
type Backend interface {
	Search(ctx context.Context, f Filters) ([]*models.Property, error)
	Name() string
}

// PostgresBackend renders the filters into a WHERE clause over the
// property and location join.
type PostgresBackend struct {
	db     *database.PostgresClient
	radius float64
}

func NewPostgresBackend(db *database.PostgresClient, radius float64) *PostgresBackend {
	return &PostgresBackend{db: db, radius: radius}
}

func (b *PostgresBackend) Name() string { return "postgres" }

func (b *PostgresBackend) Search(ctx context.Context, f Filters) ([]*models.Property, error) {
	clause, args := WhereClause(f, b.radius)
	return queries.SelectProperties(ctx, b.db.DB, clause, args...)
}

// maxHits bounds one Elasticsearch search response.
const maxHits = 1000

// ElasticsearchBackend translates the filters into a bool filter query over
// the properties index.
type ElasticsearchBackend struct {
	client *elasticsearch.Client
	index  string
	radius float64
}

func NewElasticsearchBackend(client *elasticsearch.Client, index string, radius float64) *ElasticsearchBackend {
	return &ElasticsearchBackend{client: client, index: index, radius: radius}
}

func (b *ElasticsearchBackend) Name() string { return "elasticsearch" }

func rangeClause(field, op string, value interface{}) map[string]interface{} {
	return map[string]interface{}{
		"range": map[string]interface{}{field: map[string]interface{}{op: value}},
	}
}

// BuildQuery returns the request body for f. With no filter present the
// query matches every document.
func BuildQuery(f Filters, radius float64) map[string]interface{} {
	var filter []map[string]interface{}

	if f.PriceMin != nil {
		filter = append(filter, rangeClause("pricePerMonth", "gte", *f.PriceMin))
	}
	if f.PriceMax != nil {
		filter = append(filter, rangeClause("pricePerMonth", "lte", *f.PriceMax))
	}
	if f.Beds != nil {
		filter = append(filter, map[string]interface{}{"term": map[string]interface{}{"beds": *f.Beds}})
	}
	if f.Baths != nil {
		filter = append(filter, map[string]interface{}{"term": map[string]interface{}{"baths": *f.Baths}})
	}
	if f.SquareFeetMin != nil {
		filter = append(filter, rangeClause("squareFeet", "gte", *f.SquareFeetMin))
	}
	if f.SquareFeetMax != nil {
		filter = append(filter, rangeClause("squareFeet", "lte", *f.SquareFeetMax))
	}
	if f.PropertyType != nil {
		filter = append(filter, map[string]interface{}{"term": map[string]interface{}{"propertyType": string(*f.PropertyType)}})
	}
	if len(f.Amenities) > 0 {
		filter = append(filter, map[string]interface{}{
			"terms_set": map[string]interface{}{
				"amenities": map[string]interface{}{
					"terms":                       f.Amenities,
					"minimum_should_match_script": map[string]interface{}{"source": "params.num_terms"},
				},
			},
		})
	}
	if f.AvailableFrom != nil {
		filter = append(filter, rangeClause("leaseStartDates", "lte", f.AvailableFrom.UTC().Format(time.RFC3339)))
	}
	if f.Point != nil {
		filter = append(filter, map[string]interface{}{
			"geo_distance": map[string]interface{}{
				"distance": strconv.FormatFloat(radius, 'f', -1, 64) + "m",
				"geo":      map[string]interface{}{"lat": f.Point.Latitude, "lon": f.Point.Longitude},
			},
		})
	}

	query := map[string]interface{}{"match_all": map[string]interface{}{}}
	if len(filter) > 0 {
		query = map[string]interface{}{"bool": map[string]interface{}{"filter": filter}}
	}
	return map[string]interface{}{"query": query, "size": maxHits}
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source search.Document `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (b *ElasticsearchBackend) Search(ctx context.Context, f Filters) ([]*models.Property, error) {
	body, err := json.Marshal(BuildQuery(f, b.radius))
	if err != nil {
		return nil, fmt.Errorf("marshal search query: %w", err)
	}

	req := esapi.SearchRequest{
		Index: []string{b.index},
		Body:  bytes.NewReader(body),
	}
	res, err := req.Do(ctx, b.client)
	if err != nil {
		return nil, fmt.Errorf("search properties: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search properties: %s", res.Status())
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	props := make([]*models.Property, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		props = append(props, hit.Source.ToProperty())
	}
	return props, nil
}
