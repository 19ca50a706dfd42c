package synccrmlead

import (
	"fmt"
	"time"

	"lead-scoring-workers/internal/common/config"
)

type Config struct {
	MaxJobsActive int
	Timeout       time.Duration
	LeadSource    string
}

func LoadConfig(cfg *config.Config) *Config {
	wc := config.GetWorkerConfig(cfg, TaskType)
	return &Config{
		MaxJobsActive: wc.MaxJobsActive,
		Timeout:       config.GetDuration(wc.Timeout),
		LeadSource:    cfg.Integrations.Zoho.LeadSource,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}
