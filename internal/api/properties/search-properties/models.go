package searchproperties

import (
	"time"

	"livest/internal/common/database"
	"livest/internal/common/logger"
	"livest/internal/common/observability"
	"livest/internal/models"
)

// Filters are the optional, AND-combined search criteria. A nil pointer or
// empty slice means the filter is absent.
type Filters struct {
	PriceMin      *float64
	PriceMax      *float64
	Beds          *float64
	Baths         *float64
	SquareFeetMin *float64
	SquareFeetMax *float64
	PropertyType  *models.PropertyType
	Amenities     []string
	AvailableFrom *time.Time
	Point         *models.Coordinates
}

type Output struct {
	Success    bool               `json:"success"`
	Properties []*models.Property `json:"properties"`
}

type ServiceDependencies struct {
	DB            *database.PostgresClient
	Elasticsearch *database.ElasticsearchClient
	Observability *observability.Observability
	Logger        logger.Logger
}
