// internal/workers/lead-scoring/score-lead-intent/handler.go
package scoreleadintent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"lead-scoring-workers/internal/common/camunda"
	"lead-scoring-workers/internal/common/errors"
	"lead-scoring-workers/internal/common/logger"
	"lead-scoring-workers/internal/common/metrics"
	"lead-scoring-workers/internal/scoring"
)

const (
	TaskType = "score-lead-intent"
)

type Handler struct {
	config       *Config
	scorer       *scoring.Scorer
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
}

func NewHandler(config *Config, scorer *scoring.Scorer, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		scorer:       scorer,
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

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		stdErr := errors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err))
		h.errorHandler.HandleJobError(context.Background(), client, job, stdErr)
		timer.Done(string(stdErr.Code))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
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

// execute never fails on a scoring problem; the reason travels in Output.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	lead := scoring.NewLead(input.Message, input.CompanyName, input.CompanySize, h.config.Defaults)

	result := h.scorer.Score(ctx, lead)
	metrics.LeadScoresTotal.WithLabelValues(result.Outcome()).Inc()

	output := &Output{
		LeadScore: result.Score(),
		Scored:    result.OK(),
	}
	if !result.OK() {
		output.FailureReason = string(result.Reason())
		output.FailureDetails = result.Err().Details
		h.logger.Warn("lead not scored", map[string]interface{}{
			"reason":  output.FailureReason,
			"details": output.FailureDetails,
		})
		return output, nil
	}

	h.logger.Info("lead scored", map[string]interface{}{
		"score":       *output.LeadScore,
		"companySize": lead.CompanySize,
	})
	return output, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
