package registry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lead-scoring-workers/internal/common/validation"
)

func TestDefault_ListsEveryWorker(t *testing.T) {
	reg := Default()

	assert.Equal(t, []string{
		"score-lead-intent",
		"categorize-lead",
		"classify-lead-need",
		"recommend-lead-action",
		"score-lead-batch",
		"notify-hot-lead",
		"sync-crm-lead",
	}, reg.TaskTypes())

	for _, a := range reg.Activities {
		assert.NoError(t, validation.ValidateTaskType(a.TaskType))
		assert.NotEmpty(t, a.InputSchema, a.TaskType)
	}
}

func TestFind(t *testing.T) {
	reg := Default()

	a, ok := reg.Find("score-lead-batch")
	require.True(t, ok)
	assert.Equal(t, "Score Lead Batch", a.DisplayName)

	_, ok = reg.Find("crm.user.create")
	assert.False(t, ok)

	var nilReg *ActivityRegistry
	_, ok = nilReg.Find("score-lead-batch")
	assert.False(t, ok)
}

func TestBatchInputSchema(t *testing.T) {
	a, _ := Default().Find("score-lead-batch")

	tests := []struct {
		name    string
		doc     map[string]interface{}
		wantErr bool
	}{
		{
			name: "valid",
			doc: map[string]interface{}{
				"columns": []interface{}{"message"},
				"rows":    []interface{}{map[string]interface{}{"message": "hi"}},
			},
		},
		{
			name: "valid with mapping",
			doc: map[string]interface{}{
				"columns":      []interface{}{"mensaje"},
				"rows":         []interface{}{},
				"fieldMapping": map[string]interface{}{"message": "mensaje"},
				"concurrency":  4,
			},
		},
		{
			name:    "missing rows",
			doc:     map[string]interface{}{"columns": []interface{}{"message"}},
			wantErr: true,
		},
		{
			name: "row not an object",
			doc: map[string]interface{}{
				"columns": []interface{}{"message"},
				"rows":    []interface{}{"hi"},
			},
			wantErr: true,
		},
		{
			name: "concurrency too high",
			doc: map[string]interface{}{
				"columns":     []interface{}{"message"},
				"rows":        []interface{}{},
				"concurrency": 1000,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.ValidateJSONSchema(a.InputSchema, tt.doc)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNotifyInputSchema_CategoryEnum(t *testing.T) {
	a, _ := Default().Find("notify-hot-lead")

	assert.NoError(t, validation.ValidateJSONSchema(a.InputSchema, map[string]interface{}{"category": "🟢 Hot"}))
	assert.Error(t, validation.ValidateJSONSchema(a.InputSchema, map[string]interface{}{"category": "Lukewarm"}))
	assert.Error(t, validation.ValidateJSONSchema(a.InputSchema, map[string]interface{}{}))
}

func TestLoadRegistry_RoundTripsFile(t *testing.T) {
	data, err := json.Marshal(Default())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "activity-registry.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	reg, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, Default().TaskTypes(), reg.TaskTypes())

	loaded, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Len(t, loaded.Activities, 7)
}

func TestLoadRegistry_Errors(t *testing.T) {
	_, err := LoadRegistry(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	_, err = LoadRegistry(path)
	assert.ErrorContains(t, err, "parse registry")
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Default().Validate())

	tests := []struct {
		name   string
		mutate func(*ActivityRegistry)
		errMsg string
	}{
		{"empty", func(r *ActivityRegistry) { r.Activities = nil }, "no activities"},
		{"missing id", func(r *ActivityRegistry) { r.Activities[0].ID = "" }, "ID"},
		{"duplicate id", func(r *ActivityRegistry) { r.Activities[1].ID = r.Activities[0].ID }, "duplicate activity ID"},
		{"missing display name", func(r *ActivityRegistry) { r.Activities[2].DisplayName = "" }, "DisplayName"},
		{"dotted task type", func(r *ActivityRegistry) { r.Activities[3].TaskType = "lead.score" }, "kebab-case"},
		{"duplicate task type", func(r *ActivityRegistry) { r.Activities[4].TaskType = r.Activities[0].TaskType }, "duplicate task type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := Default()
			tt.mutate(reg)
			assert.ErrorContains(t, reg.Validate(), tt.errMsg)
		})
	}
}
