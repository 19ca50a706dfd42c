// internal/workers/lead-scoring/notify-hot-lead/models.go
package notifyhotlead

import (
	"context"
	"time"
)

const (
	StatusSent     = "sent"
	StatusSkipped  = "skipped"
	StatusDisabled = "disabled"
	StatusFailed   = "failed"

	ChannelSNS = "sns"
	ChannelSES = "ses"
)

type Input struct {
	Email          string   `json:"email"`
	CompanyName    string   `json:"companyName"`
	Message        string   `json:"message"`
	LeadScore      *float64 `json:"leadScore"`
	Category       string   `json:"category"`
	Need           string   `json:"need"`
	Recommendation string   `json:"recommendation"`
}

type Output struct {
	NotificationID string     `json:"notificationId"`
	Status         string     `json:"status"`
	Channels       []string   `json:"channels"`
	FailedChannels []string   `json:"failedChannels,omitempty"`
	SentAt         *time.Time `json:"sentAt,omitempty"`
}

// AlertPublisher is satisfied by *aws.SNSClient.
type AlertPublisher interface {
	PublishAlert(ctx context.Context, subject, message string, attributes map[string]string) (string, error)
}

// EmailSender is satisfied by *aws.SESClient.
type EmailSender interface {
	SendText(ctx context.Context, to []string, subject, body string) (string, error)
}
