// pkg/registry/schema.go
package registry

type ActivityRegistry struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Activities  []Activity `json:"activities"`
}

type Activity struct {
	ID           string                 `json:"id"`
	DisplayName  string                 `json:"displayName"`
	Description  string                 `json:"description"`
	Category     string                 `json:"category"`
	Version      string                 `json:"version"`
	TaskType     string                 `json:"taskType"`
	InputSchema  map[string]interface{} `json:"inputSchema"`
	OutputSchema map[string]interface{} `json:"outputSchema,omitempty"`
	ErrorCodes   []string               `json:"errorCodes"`
	Timeout      string                 `json:"timeout"`
	Retries      int                    `json:"retries"`
	Tags         []string               `json:"tags"`
}

func object(required []string, props map[string]interface{}) map[string]interface{} {
	s := map[string]interface{}{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func typed(t ...string) map[string]interface{} {
	if len(t) == 1 {
		return map[string]interface{}{"type": t[0]}
	}
	return map[string]interface{}{"type": t}
}

func nullableString() map[string]interface{} { return typed("string", "number", "null") }

var categoryEnum = map[string]interface{}{
	"type": "string",
	"enum": []interface{}{"Hot", "Warm", "Cold", "Unknown", "🟢 Hot", "🟡 Warm", "🔴 Cold", "❓ Unknown"},
}

var scoreSchema = map[string]interface{}{"type": []string{"integer", "null"}}

// defaultActivities mirrors the task types the worker manager can register.
func defaultActivities() []Activity {
	return []Activity{
		{
			ID:          "score-lead-intent",
			DisplayName: "Score Lead Intent",
			Description: "Asks the completion model for a 1-5 intent-to-hire score.",
			Category:    "scoring",
			Version:     "1.0.0",
			TaskType:    "score-lead-intent",
			InputSchema: object(nil, map[string]interface{}{
				"message":     map[string]interface{}{},
				"companyName": nullableString(),
				"companySize": nullableString(),
			}),
			OutputSchema: object([]string{"scored"}, map[string]interface{}{
				"leadScore":     scoreSchema,
				"scored":        typed("boolean"),
				"failureReason": typed("string"),
			}),
			ErrorCodes: []string{"LLM_REQUEST_FAILED", "LLM_TIMEOUT", "MALFORMED_REPLY", "SCORE_OUT_OF_RANGE", "MISSING_MESSAGE"},
			Timeout:    "30s",
			Retries:    3,
			Tags:       []string{"llm", "lead"},
		},
		{
			ID:          "categorize-lead",
			DisplayName: "Categorize Lead",
			Description: "Maps an optional score to Hot, Warm, Cold or Unknown.",
			Category:    "scoring",
			Version:     "1.0.0",
			TaskType:    "categorize-lead",
			InputSchema: object(nil, map[string]interface{}{
				"leadScore": typed("number", "null"),
			}),
			ErrorCodes: []string{},
			Timeout:    "5s",
			Retries:    3,
			Tags:       []string{"lead"},
		},
		{
			ID:          "classify-lead-need",
			DisplayName: "Classify Lead Need",
			Description: "Buckets the lead message by keyword.",
			Category:    "scoring",
			Version:     "1.0.0",
			TaskType:    "classify-lead-need",
			InputSchema: object(nil, map[string]interface{}{
				"message": map[string]interface{}{},
			}),
			ErrorCodes: []string{},
			Timeout:    "5s",
			Retries:    3,
			Tags:       []string{"lead"},
		},
		{
			ID:          "recommend-lead-action",
			DisplayName: "Recommend Lead Action",
			Description: "Maps a category to the next sales action.",
			Category:    "scoring",
			Version:     "1.0.0",
			TaskType:    "recommend-lead-action",
			InputSchema: object(nil, map[string]interface{}{
				"category": typed("string", "null"),
			}),
			ErrorCodes: []string{},
			Timeout:    "5s",
			Retries:    3,
			Tags:       []string{"lead"},
		},
		{
			ID:          "score-lead-batch",
			DisplayName: "Score Lead Batch",
			Description: "Scores and classifies every row of a lead table.",
			Category:    "scoring",
			Version:     "1.0.0",
			TaskType:    "score-lead-batch",
			InputSchema: object([]string{"columns", "rows"}, map[string]interface{}{
				"columns": map[string]interface{}{
					"type":  "array",
					"items": typed("string"),
				},
				"rows": map[string]interface{}{
					"type":  "array",
					"items": typed("object"),
				},
				"fieldMapping": object(nil, map[string]interface{}{
					"message":     typed("string"),
					"companyName": typed("string"),
					"companySize": typed("string"),
				}),
				"concurrency": map[string]interface{}{
					"type":    "integer",
					"minimum": 0,
					"maximum": 64,
				},
			}),
			ErrorCodes: []string{"MISSING_REQUIRED_COLUMN", "INVALID_INPUT"},
			Timeout:    "10m",
			Retries:    1,
			Tags:       []string{"llm", "lead", "batch"},
		},
		{
			ID:          "notify-hot-lead",
			DisplayName: "Notify Hot Lead",
			Description: "Alerts sales through SNS and SES when a lead is Hot.",
			Category:    "notification",
			Version:     "1.0.0",
			TaskType:    "notify-hot-lead",
			InputSchema: object([]string{"category"}, map[string]interface{}{
				"category":       categoryEnum,
				"email":          typed("string"),
				"companyName":    typed("string"),
				"message":        typed("string"),
				"leadScore":      typed("number", "null"),
				"need":           typed("string"),
				"recommendation": typed("string"),
			}),
			ErrorCodes: []string{"NOTIFICATION_SEND_FAILED", "INVALID_INPUT"},
			Timeout:    "30s",
			Retries:    3,
			Tags:       []string{"aws", "lead"},
		},
		{
			ID:          "sync-crm-lead",
			DisplayName: "Sync CRM Lead",
			Description: "Creates or updates the scored lead in Zoho CRM.",
			Category:    "crm",
			Version:     "1.0.0",
			TaskType:    "sync-crm-lead",
			InputSchema: object([]string{"email"}, map[string]interface{}{
				"email":          typed("string"),
				"firstName":      typed("string"),
				"lastName":       typed("string"),
				"companyName":    typed("string"),
				"message":        typed("string"),
				"leadScore":      typed("number", "null"),
				"category":       typed("string"),
				"need":           typed("string"),
				"recommendation": typed("string"),
			}),
			ErrorCodes: []string{"CRM_API_ERROR", "CRM_NOT_CONFIGURED", "INVALID_INPUT"},
			Timeout:    "30s",
			Retries:    3,
			Tags:       []string{"zoho", "lead"},
		},
	}
}
