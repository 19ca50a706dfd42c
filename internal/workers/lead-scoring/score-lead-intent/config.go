// internal/workers/lead-scoring/score-lead-intent/config.go
package scoreleadintent

import (
	"fmt"
	"time"

	"lead-scoring-workers/internal/common/config"
	"lead-scoring-workers/internal/scoring"
)

type Config struct {
	Enabled       bool
	MaxJobsActive int
	Timeout       time.Duration
	Defaults      scoring.Defaults
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       30 * time.Second,
		Defaults:      scoring.StandardDefaults(),
	}
}

// ConfigFromApp reads the worker block for TaskType and the shared scoring defaults.
func ConfigFromApp(cfg *config.Config) *Config {
	wc := config.GetWorkerConfig(cfg, TaskType)
	return &Config{
		Enabled:       wc.Enabled,
		MaxJobsActive: wc.MaxJobsActive,
		Timeout:       config.GetDuration(wc.Timeout),
		Defaults: scoring.Defaults{
			CompanyName: cfg.Scoring.DefaultCompanyName,
			CompanySize: cfg.Scoring.DefaultCompanySize,
		},
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
	}
	return nil
}
