// internal/workers/lead-scoring/score-lead-batch/handler.go
package scoreleadbatch

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	"lead-scoring-workers/internal/common/camunda"
	"lead-scoring-workers/internal/common/errors"
	"lead-scoring-workers/internal/common/logger"
	"lead-scoring-workers/internal/common/metrics"
	"lead-scoring-workers/internal/common/validation"
	"lead-scoring-workers/internal/scoring"
)

const (
	TaskType = "score-lead-batch"
)

type Handler struct {
	config       *Config
	pipeline     *scoring.Pipeline
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
}

func NewHandler(config *Config, pipeline *scoring.Pipeline, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		pipeline:     pipeline,
		logger:       l,
		errorHandler: errors.NewErrorHandler(l),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	timer := metrics.StartJob(TaskType)

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	input, err := h.parseInput(job.Variables)
	if err != nil {
		h.errorHandler.HandleJobError(context.Background(), client, job, err)
		timer.Done(string(errors.Normalize(err).Code))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, input)
	if err != nil {
		h.errorHandler.HandleJobError(context.Background(), client, job, err)
		timer.Done(string(errors.Normalize(err).Code))
		return
	}

	if err := camunda.CompleteJob(context.Background(), client, job, output, h.logger); err != nil {
		timer.Done(string(errors.ErrCodeInternal))
		return
	}
	timer.Done("")
}

// parseInput validates raw job variables against the activity schema, then decodes them.
func (h *Handler) parseInput(variables string) (*Input, error) {
	if h.config.InputSchema != nil {
		var doc interface{}
		if err := json.Unmarshal([]byte(variables), &doc); err != nil {
			return nil, errors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err))
		}
		if err := validation.ValidateJSONSchema(h.config.InputSchema, doc); err != nil {
			return nil, errors.NewInvalidInputError(err.Error())
		}
	}

	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, errors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err))
	}
	return &input, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	mapping := h.config.FieldMapping
	if input.FieldMapping != nil {
		mapping = *input.FieldMapping
	}

	concurrency := h.config.Concurrency
	if input.Concurrency > 0 {
		concurrency = input.Concurrency
	}
	if concurrency > maxConcurrency {
		concurrency = maxConcurrency
	}

	batchID := uuid.New().String()
	log := h.logger.WithFields(map[string]interface{}{"batchId": batchID})

	scored, err := h.pipeline.WithConcurrency(concurrency).ScoreTable(ctx, scoring.Table{
		Columns: input.Columns,
		Rows:    input.Rows,
	}, mapping)
	if err != nil {
		log.Warn("batch rejected", map[string]interface{}{
			"error":   err,
			"columns": input.Columns,
		})
		return nil, err
	}

	log.Info("batch scored", map[string]interface{}{
		"total":       scored.Summary.Total,
		"scored":      scored.Summary.Scored,
		"unscored":    scored.Summary.Unscored,
		"concurrency": concurrency,
	})

	return &Output{
		BatchID: batchID,
		Columns: scored.Columns,
		Rows:    scored.Rows,
		Summary: scored.Summary,
	}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
