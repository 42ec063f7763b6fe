// internal/workers/property/sync-property-index/handler.go
package syncpropertyindex

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apperrors "livest/internal/common/errors"
	"livest/internal/common/logger"
	"livest/internal/common/metrics"
	"livest/internal/common/search"
	"livest/internal/queries"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/jmoiron/sqlx"
)

const (
	TaskType = "sync-property-index"
)

type Handler struct {
	config     *Config
	db         *sqlx.DB
	indexer    Indexer
	logger     logger.Logger
	errHandler *apperrors.JobErrorHandler
}

func NewHandler(config *Config, db *sqlx.DB, indexer Indexer, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		db:         db,
		indexer:    indexer,
		logger:     log,
		errHandler: apperrors.NewJobErrorHandler(log),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	defer func() {
		metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	}()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, apperrors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err)))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.Execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, err)
		return
	}

	h.completeJob(client, job, output)
}

// Execute rebuilds the search document of one property from Postgres. A
// property that no longer exists is removed from the index.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil || input.PropertyID == "" {
		return nil, apperrors.NewInvalidInputError("propertyId is required")
	}

	prop, err := queries.GetProperty(ctx, h.db, input.PropertyID)
	if errors.Is(err, sql.ErrNoRows) {
		if err := h.indexer.Delete(ctx, input.PropertyID); err != nil {
			return nil, apperrors.NewElasticsearchConnectionFailedError(err)
		}
		h.logger.Info("property removed from index", map[string]interface{}{"propertyId": input.PropertyID})
		return &Output{IndexStatus: StatusDeleted, IndexedAt: time.Now().UTC().Format(time.RFC3339)}, nil
	}
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("get-property", err)
	}

	starts, err := queries.LeaseStartDates(ctx, h.db, input.PropertyID)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("lease-start-dates", err)
	}

	if err := h.indexer.Index(ctx, search.NewDocument(prop, starts)); err != nil {
		return nil, apperrors.NewElasticsearchConnectionFailedError(err)
	}

	h.logger.Info("property indexed", map[string]interface{}{
		"propertyId": input.PropertyID,
		"index":      h.config.IndexName,
		"leases":     len(starts),
	})
	return &Output{
		IndexStatus: StatusIndexed,
		LeaseCount:  len(starts),
		IndexedAt:   time.Now().UTC().Format(time.RFC3339),
	}, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if _, err = cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(apperrors.CodeOf(err))).Inc()
	h.errHandler.HandleJobError(context.Background(), client, job, err)
}
