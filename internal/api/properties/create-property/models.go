package createproperty

import (
	"context"

	"livest/internal/common/camunda"
	"livest/internal/common/database"
	"livest/internal/common/geocoding"
	"livest/internal/common/logger"
	"livest/internal/common/observability"
	"livest/internal/common/search"
	"livest/internal/models"
)

type Input struct {
	Name              string              `json:"name"`
	Description       string              `json:"description"`
	PricePerMonth     float64             `json:"pricePerMonth"`
	SecurityDeposit   float64             `json:"securityDeposit"`
	ApplicationFee    float64             `json:"applicationFee"`
	PhotoURLs         []string            `json:"photoUrls"`
	Amenities         []string            `json:"amenities"`
	Highlights        []string            `json:"highlights"`
	IsPetsAllowed     bool                `json:"isPetsAllowed"`
	IsParkingIncluded bool                `json:"isParkingIncluded"`
	Beds              int                 `json:"beds"`
	Baths             float64             `json:"baths"`
	SquareFeet        int                 `json:"squareFeet"`
	PropertyType      models.PropertyType `json:"propertyType"`
	Address           string              `json:"address"`
	City              string              `json:"city"`
	State             string              `json:"state"`
	Country           string              `json:"country"`
	PostalCode        string              `json:"postalCode"`
}

type Output struct {
	Success  bool             `json:"success"`
	Property *models.Property `json:"property"`
	Message  string           `json:"message"`
}

// Indexer stores the search document of a property.
type Indexer interface {
	Index(ctx context.Context, doc search.Document) error
}

type ServiceDependencies struct {
	DB            *database.PostgresClient
	Geocoder      geocoding.Geocoder
	Indexer       Indexer
	Publisher     camunda.Publisher
	Observability *observability.Observability
	Logger        logger.Logger
}
