// internal/workers/lead-scoring/score-lead-batch/config.go
package scoreleadbatch

import (
	"fmt"
	"time"

	"lead-scoring-workers/internal/common/config"
	"lead-scoring-workers/internal/scoring"
)

const maxConcurrency = 64

type Config struct {
	MaxJobsActive int
	Timeout       time.Duration
	// Concurrency is used when a job does not set its own.
	Concurrency  int
	FieldMapping scoring.FieldMapping
	// InputSchema validates job variables before any row is read. Nil skips it.
	InputSchema map[string]interface{}
}

func DefaultConfig() *Config {
	return &Config{
		MaxJobsActive: 1,
		Timeout:       10 * time.Minute,
		Concurrency:   1,
		FieldMapping:  scoring.DefaultFieldMapping(),
	}
}

func LoadConfig(cfg *config.Config, inputSchema map[string]interface{}) *Config {
	wc := config.GetWorkerConfig(cfg, TaskType)
	m := cfg.Scoring.FieldMapping
	return &Config{
		MaxJobsActive: wc.MaxJobsActive,
		Timeout:       config.GetDuration(wc.Timeout),
		Concurrency:   cfg.Scoring.Concurrency,
		FieldMapping: scoring.FieldMapping{
			Message:     m.Message,
			CompanyName: m.CompanyName,
			CompanySize: m.CompanySize,
		},
		InputSchema: inputSchema,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.Concurrency > maxConcurrency {
		return fmt.Errorf("concurrency must be at most %d", maxConcurrency)
	}
	if c.FieldMapping.Message == "" {
		return fmt.Errorf("field_mapping.message is required")
	}
	return nil
}
