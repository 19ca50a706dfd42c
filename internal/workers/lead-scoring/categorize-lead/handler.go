package categorizelead

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"lead-scoring-workers/internal/common/camunda"
	"lead-scoring-workers/internal/common/errors"
	"lead-scoring-workers/internal/common/logger"
	"lead-scoring-workers/internal/common/metrics"
	"lead-scoring-workers/internal/scoring"
)

const (
	TaskType = "categorize-lead"
)

type Handler struct {
	config       *Config
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{config: config, logger: l, errorHandler: errors.NewErrorHandler(l)}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	timer := metrics.StartJob(TaskType)

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		stdErr := errors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err))
		h.errorHandler.HandleJobError(context.Background(), client, job, stdErr)
		timer.Done(string(stdErr.Code))
		return
	}

	output, _ := h.execute(context.Background(), &input)
	if err := camunda.CompleteJob(context.Background(), client, job, output, h.logger); err != nil {
		timer.Done(string(errors.ErrCodeInternal))
		return
	}
	timer.Done("")
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	var score *int
	if input.LeadScore != nil && *input.LeadScore == math.Trunc(*input.LeadScore) {
		s := int(*input.LeadScore)
		score = &s
	}

	category := scoring.Categorize(score)
	metrics.LeadCategoriesTotal.WithLabelValues(string(category)).Inc()

	h.logger.Debug("lead categorized", map[string]interface{}{
		"category": string(category),
	})

	return &Output{
		Category:      string(category),
		CategoryLabel: category.Label(),
	}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
