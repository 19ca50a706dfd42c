package synccrmlead

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"lead-scoring-workers/internal/common/camunda"
	"lead-scoring-workers/internal/common/errors"
	"lead-scoring-workers/internal/common/logger"
	"lead-scoring-workers/internal/common/metrics"
	"lead-scoring-workers/internal/common/validation"
	"lead-scoring-workers/internal/common/zoho"
	"lead-scoring-workers/internal/scoring"
)

const (
	TaskType = "sync-crm-lead"
)

type Handler struct {
	config       *Config
	crm          LeadStore
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
}

// NewHandler wires the CRM. A nil crm fails every job with CRM_NOT_CONFIGURED.
func NewHandler(config *Config, crm LeadStore, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{config: config, crm: crm, logger: l, errorHandler: errors.NewErrorHandler(l)}
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

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if h.crm == nil {
		return nil, errors.NewCRMNotConfiguredError()
	}
	if !validation.ValidateEmail(input.Email) {
		return nil, errors.NewInvalidInputError(fmt.Sprintf("invalid email %q", input.Email))
	}

	lead := h.toLead(input)

	existing, err := h.crm.SearchLeadsByEmail(ctx, input.Email)
	if err != nil {
		return nil, crmError("searchLeads", err)
	}

	if len(existing) > 0 {
		id, err := h.crm.UpdateLead(ctx, existing[0].ID, lead)
		if err != nil {
			return nil, crmError("updateLead", err)
		}
		h.logger.Info("crm lead updated", map[string]interface{}{"leadId": id})
		return &Output{Success: true, LeadID: id, Action: ActionUpdated}, nil
	}

	id, err := h.crm.CreateLead(ctx, lead)
	if err != nil {
		return nil, crmError("createLead", err)
	}
	h.logger.Info("crm lead created", map[string]interface{}{"leadId": id})
	return &Output{Success: true, LeadID: id, Action: ActionCreated}, nil
}

func (h *Handler) toLead(input *Input) *zoho.Lead {
	var score *int
	if input.LeadScore != nil && *input.LeadScore == math.Trunc(*input.LeadScore) {
		s := int(*input.LeadScore)
		score = &s
	}

	category := scoring.ParseCategory(input.Category)
	recommendation := input.Recommendation
	if recommendation == "" {
		recommendation = scoring.Recommend(category)
	}

	return &zoho.Lead{
		FirstName:       titleCase(input.FirstName),
		LastName:        lastName(input),
		Email:           input.Email,
		Company:         orDefault(input.CompanyName, scoring.DefaultCompanyName),
		Description:     input.Message,
		Source:          h.config.LeadSource,
		LeadScore:       score,
		LeadTemperature: string(category),
		LeadNeed:        orDefault(input.Need, string(scoring.ClassifyNeed(input.Message))),
		NextAction:      recommendation,
	}
}

// lastName is mandatory in Zoho; fall back to the email local part.
func lastName(input *Input) string {
	if strings.TrimSpace(input.LastName) != "" {
		return titleCase(input.LastName)
	}
	local := input.Email
	if i := strings.IndexByte(local, '@'); i > 0 {
		local = local[:i]
	}
	return titleCase(strings.NewReplacer(".", " ", "_", " ", "-", " ").Replace(local))
}

func titleCase(s string) string {
	return cases.Title(language.Und).String(strings.TrimSpace(s))
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

// crmError marks 4xx responses non-retryable.
func crmError(op string, err error) *errors.StandardError {
	stdErr := errors.NewCRMAPIError(op, err)
	if zoho.IsClientError(err) {
		stdErr.Retryable = false
	}
	return stdErr
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
