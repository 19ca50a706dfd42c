// internal/workers/lead-scoring/score-lead-batch/models.go
package scoreleadbatch

import "lead-scoring-workers/internal/scoring"

type Input struct {
	Columns []string                 `json:"columns"`
	Rows    []map[string]interface{} `json:"rows"`
	// FieldMapping overrides the configured mapping when set.
	FieldMapping *scoring.FieldMapping `json:"fieldMapping,omitempty"`
	Concurrency  int                   `json:"concurrency,omitempty"`
}

type Output struct {
	BatchID string                   `json:"batchId"`
	Columns []string                 `json:"columns"`
	Rows    []map[string]interface{} `json:"rows"`
	Summary scoring.Summary          `json:"summary"`
}
