// Package searchproperties implements the public property search: optional
// filters combined with AND, plus a fixed-radius geo filter.
package searchproperties

import (
	"context"
	"strconv"
	"time"

	"livest/internal/common/config"
	apperrors "livest/internal/common/errors"
	"livest/internal/common/logger"
	"livest/internal/common/metrics"
	"livest/internal/common/observability"
	"livest/internal/models"
)

const OperationName = "search-properties"

type Service struct {
	backend Backend
	config  *Config
	obs     *observability.Observability
	logger  logger.Logger
}

func NewService(deps ServiceDependencies, cfg *Config) *Service {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	var backend Backend = NewPostgresBackend(deps.DB, cfg.RadiusMeters)
	if cfg.Backend == config.SearchBackendElasticsearch && deps.Elasticsearch != nil {
		backend = NewElasticsearchBackend(deps.Elasticsearch.Client, cfg.IndexName, cfg.RadiusMeters)
	}

	return NewServiceWithBackend(backend, deps, cfg)
}

// NewServiceWithBackend is NewService with an explicit backend.
func NewServiceWithBackend(backend Backend, deps ServiceDependencies, cfg *Config) *Service {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Service{
		backend: backend,
		config:  cfg,
		obs:     deps.Observability,
		logger: deps.Logger.WithFields(map[string]interface{}{
			"operation": OperationName,
			"backend":   backend.Name(),
		}),
	}
}

func (s *Service) Execute(ctx context.Context, f Filters) (*Output, error) {
	start := time.Now()
	out, err := s.execute(ctx, f)
	outcome := "success"
	if err != nil {
		outcome = string(apperrors.CodeOf(err))
	}
	s.obs.RecordOperation(ctx, OperationName, outcome, time.Since(start))
	return out, err
}

func (s *Service) execute(ctx context.Context, f Filters) (*Output, error) {
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	metrics.SearchQueries.WithLabelValues(s.backend.Name(), strconv.FormatBool(f.Point != nil)).Inc()

	props, err := s.backend.Search(ctx, f)
	if err != nil {
		s.logger.Error("property search failed", map[string]interface{}{"error": err.Error()})
		return nil, apperrors.NewInternalError("Error retrieving properties", err)
	}
	if props == nil {
		props = []*models.Property{}
	}

	s.logger.Debug("property search completed", map[string]interface{}{"results": len(props)})
	return &Output{Success: true, Properties: props}, nil
}
