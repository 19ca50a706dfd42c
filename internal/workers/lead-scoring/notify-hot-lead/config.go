// internal/workers/lead-scoring/notify-hot-lead/config.go
package notifyhotlead

import (
	"fmt"
	"time"

	"lead-scoring-workers/internal/common/config"
)

type Config struct {
	MaxJobsActive int
	Timeout       time.Duration
	SNSEnabled    bool
	SESEnabled    bool
	SalesEmails   []string
}

func LoadConfig(cfg *config.Config) *Config {
	wc := config.GetWorkerConfig(cfg, TaskType)
	aws := cfg.Integrations.AWS
	return &Config{
		MaxJobsActive: wc.MaxJobsActive,
		Timeout:       config.GetDuration(wc.Timeout),
		SNSEnabled:    aws.SNS.Enabled,
		SESEnabled:    aws.SES.Enabled,
		SalesEmails:   aws.SES.SalesEmails,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.SESEnabled && len(c.SalesEmails) == 0 {
		return fmt.Errorf("sales_emails is required when ses is enabled")
	}
	return nil
}
