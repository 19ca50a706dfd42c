// internal/workers/lead-scoring/notify-hot-lead/handler.go
package notifyhotlead

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	"lead-scoring-workers/internal/common/camunda"
	"lead-scoring-workers/internal/common/errors"
	"lead-scoring-workers/internal/common/logger"
	"lead-scoring-workers/internal/common/metrics"
	"lead-scoring-workers/internal/scoring"
)

const (
	TaskType = "notify-hot-lead"
)

type Handler struct {
	config       *Config
	publisher    AlertPublisher
	email        EmailSender
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
}

// NewHandler wires the notification channels. Either may be nil.
func NewHandler(config *Config, publisher AlertPublisher, email EmailSender, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		publisher:    publisher,
		email:        email,
		logger:       l,
		errorHandler: errors.NewErrorHandler(l),
	}
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
	output := &Output{
		NotificationID: uuid.New().String(),
		Channels:       []string{},
	}

	category := scoring.ParseCategory(input.Category)
	if category != scoring.CategoryHot {
		output.Status = StatusSkipped
		return output, nil
	}

	snsOn := h.config.SNSEnabled && h.publisher != nil
	sesOn := h.config.SESEnabled && h.email != nil && len(h.config.SalesEmails) > 0
	if !snsOn && !sesOn {
		output.Status = StatusDisabled
		h.logger.Info("hot lead not notified, no channel enabled", map[string]interface{}{
			"email": input.Email,
		})
		return output, nil
	}

	subject := fmt.Sprintf("Hot lead: %s", orDefault(input.CompanyName, scoring.DefaultCompanyName))
	body := renderBody(input, category)

	var lastErr error
	var lastChannel string
	if snsOn {
		_, err := h.publisher.PublishAlert(ctx, subject, body, map[string]string{
			"category": string(category),
			"need":     orDefault(input.Need, string(scoring.NeedOther)),
		})
		h.track(output, ChannelSNS, err)
		if err != nil {
			lastErr, lastChannel = err, ChannelSNS
		}
	}
	if sesOn {
		_, err := h.email.SendText(ctx, h.config.SalesEmails, subject, body)
		h.track(output, ChannelSES, err)
		if err != nil {
			lastErr, lastChannel = err, ChannelSES
		}
	}

	if len(output.Channels) == 0 {
		output.Status = StatusFailed
		return output, errors.NewNotificationSendFailedError(lastChannel, lastErr)
	}

	now := time.Now().UTC()
	output.Status = StatusSent
	output.SentAt = &now

	h.logger.Info("hot lead notified", map[string]interface{}{
		"notificationId": output.NotificationID,
		"channels":       output.Channels,
		"failedChannels": output.FailedChannels,
	})
	return output, nil
}

func (h *Handler) track(output *Output, channel string, err error) {
	if err == nil {
		output.Channels = append(output.Channels, channel)
		return
	}
	output.FailedChannels = append(output.FailedChannels, channel)
	h.logger.Warn("notification channel failed", map[string]interface{}{
		"channel": channel,
		"error":   err,
	})
}

func renderBody(input *Input, category scoring.Category) string {
	score := "n/a"
	if input.LeadScore != nil {
		score = fmt.Sprintf("%g", *input.LeadScore)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Category: %s\n", category.Label())
	fmt.Fprintf(&b, "Score: %s\n", score)
	fmt.Fprintf(&b, "Company: %s\n", orDefault(input.CompanyName, scoring.DefaultCompanyName))
	if input.Email != "" {
		fmt.Fprintf(&b, "Email: %s\n", input.Email)
	}
	fmt.Fprintf(&b, "Need: %s\n", orDefault(input.Need, string(scoring.NeedOther)))
	fmt.Fprintf(&b, "Next action: %s\n", orDefault(input.Recommendation, scoring.Recommend(category)))
	if input.Message != "" {
		fmt.Fprintf(&b, "\nMessage:\n%s\n", input.Message)
	}
	return b.String()
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
