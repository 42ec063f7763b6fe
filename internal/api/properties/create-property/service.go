// Package createproperty lets a manager list a new property. The address is
// geocoded and the location and property rows are written together.
package createproperty

import (
	"context"
	"errors"
	"time"

	"livest/internal/common/auth"
	"livest/internal/common/camunda"
	"livest/internal/common/database"
	apperrors "livest/internal/common/errors"
	"livest/internal/common/geocoding"
	"livest/internal/common/logger"
	"livest/internal/common/observability"
	"livest/internal/common/search"
	"livest/internal/models"
	"livest/internal/queries"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const OperationName = "create-property"

type Service struct {
	config    *Config
	db        *database.PostgresClient
	geocoder  geocoding.Geocoder
	indexer   Indexer
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
		geocoder:  deps.Geocoder,
		indexer:   deps.Indexer,
		publisher: publisher,
		obs:       deps.Observability,
		logger:    deps.Logger.WithFields(map[string]interface{}{"operation": OperationName}),
	}
}

func (s *Service) Execute(ctx context.Context, principal *auth.Principal, input *Input) (*Output, error) {
	start := time.Now()
	out, err := s.execute(ctx, principal, input)
	outcome := "created"
	if err != nil {
		outcome = string(apperrors.CodeOf(err))
	}
	s.obs.RecordOperation(ctx, OperationName, outcome, time.Since(start))
	return out, err
}

func (s *Service) execute(ctx context.Context, principal *auth.Principal, input *Input) (*Output, error) {
	if err := auth.RequireRole(principal, auth.RoleManager); err != nil {
		return nil, err
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	var point geocoding.Point
	if s.geocoder != nil {
		var err error
		point, err = s.geocoder.Geocode(ctx, geocoding.Address{
			Street:     input.Address,
			City:       input.City,
			Country:    input.Country,
			PostalCode: input.PostalCode,
		})
		if err != nil {
			return nil, err
		}
	}

	locationID := uuid.NewString()
	propertyID := uuid.NewString()

	err := s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO locations (id, address, city, state, country, postal_code, coordinates)
			VALUES ($1, $2, $3, $4, $5, $6, ST_SetSRID(ST_MakePoint($7, $8), 4326)::geography)`,
			locationID, input.Address, input.City, input.State, input.Country, input.PostalCode,
			point.Longitude, point.Latitude,
		); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO properties (
				id, name, description, price_per_month, security_deposit, application_fee,
				photo_urls, amenities, highlights, is_pets_allowed, is_parking_included,
				beds, baths, square_feet, property_type, location_id, manager_id
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
			propertyID, input.Name, input.Description, input.PricePerMonth, input.SecurityDeposit, input.ApplicationFee,
			pq.Array(nonNil(input.PhotoURLs)), pq.Array(nonNil(input.Amenities)), pq.Array(nonNil(input.Highlights)),
			input.IsPetsAllowed, input.IsParkingIncluded,
			input.Beds, input.Baths, input.SquareFeet, input.PropertyType, locationID, principal.UserID,
		)
		return err
	})
	if err != nil {
		return nil, s.internal(err)
	}

	prop, err := queries.GetProperty(ctx, s.db.DB, propertyID)
	if err != nil {
		return nil, s.internal(err)
	}

	s.logger.Info("property created", map[string]interface{}{
		"propertyId": propertyID,
		"managerId":  principal.UserID,
	})

	s.index(ctx, prop)
	camunda.PublishBestEffort(ctx, s.publisher, s.logger, camunda.Message{
		Name:           camunda.MessagePropertyCreated,
		CorrelationKey: propertyID,
		Variables: map[string]interface{}{
			"propertyId": propertyID,
			"managerId":  principal.UserID,
		},
	})

	return &Output{
		Success:  true,
		Property: prop,
		Message:  "Property created successfully",
	}, nil
}

// index writes the new property into the search index. The property-created
// process re-syncs it, so a failure here is only logged.
func (s *Service) index(ctx context.Context, prop *models.Property) {
	if s.indexer == nil {
		return
	}
	if err := s.indexer.Index(ctx, search.NewDocument(prop, nil)); err != nil {
		s.logger.Warn("index property failed", map[string]interface{}{
			"propertyId": prop.ID,
			"error":      err.Error(),
		})
	}
}

func (s *Service) internal(err error) error {
	var stdErr *apperrors.StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	s.logger.Error("create property failed", map[string]interface{}{"error": err.Error()})
	return apperrors.NewInternalError("Error creating property", err)
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
