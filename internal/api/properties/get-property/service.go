// Package getproperty serves one property with its location and manager,
// read through a Redis cache.
package getproperty

import (
	"context"
	"errors"

	"livest/internal/common/database"
	apperrors "livest/internal/common/errors"
	"livest/internal/common/logger"
	"livest/internal/common/metrics"
	"livest/internal/models"
	"livest/internal/queries"
)

const OperationName = "get-property"

// CacheKey is the Redis key a property is cached under.
func CacheKey(id string) string {
	return "property:" + id
}

type Service struct {
	config *Config
	db     *database.PostgresClient
	cache  *database.RedisClient
	logger logger.Logger
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	if config == nil {
		config = DefaultConfig()
	}
	return &Service{
		config: config,
		db:     deps.DB,
		cache:  deps.Cache,
		logger: deps.Logger.WithFields(map[string]interface{}{"operation": OperationName}),
	}
}

func (s *Service) Execute(ctx context.Context, id string) (*Output, error) {
	if prop, ok := s.cached(ctx, id); ok {
		return &Output{Success: true, Property: prop}, nil
	}

	prop, err := queries.GetProperty(ctx, s.db.DB, id)
	if database.IsNotFound(err) {
		return nil, apperrors.NewNotFoundError("Property not found")
	}
	if err != nil {
		s.logger.Error("get property failed", map[string]interface{}{"propertyId": id, "error": err.Error()})
		return nil, apperrors.NewInternalError("Error retrieving property", err)
	}

	s.store(ctx, prop)
	return &Output{Success: true, Property: prop}, nil
}

// cached never fails the request: Redis errors count as misses.
func (s *Service) cached(ctx context.Context, id string) (*models.Property, bool) {
	if s.cache == nil {
		return nil, false
	}

	var prop models.Property
	err := s.cache.GetJSON(ctx, CacheKey(id), &prop)
	switch {
	case err == nil:
		metrics.PropertyCacheLookups.WithLabelValues("hit").Inc()
		return &prop, true
	case errors.Is(err, database.ErrCacheMiss):
		metrics.PropertyCacheLookups.WithLabelValues("miss").Inc()
	default:
		metrics.PropertyCacheLookups.WithLabelValues("error").Inc()
		s.logger.Warn("property cache read failed", map[string]interface{}{"propertyId": id, "error": err.Error()})
	}
	return nil, false
}

func (s *Service) store(ctx context.Context, prop *models.Property) {
	if s.cache == nil || s.config.CacheTTL <= 0 {
		return
	}
	if err := s.cache.SetJSON(ctx, CacheKey(prop.ID), prop, s.config.CacheTTL); err != nil {
		s.logger.Warn("property cache write failed", map[string]interface{}{"propertyId": prop.ID, "error": err.Error()})
	}
}
