// internal/workers/lead-scoring/score-lead-intent/models.go
package scoreleadintent

// Input fields stay untyped: a non-string message is scored as missing, and
// numeric company sizes are rendered as text.
type Input struct {
	Message     interface{} `json:"message"`
	CompanyName interface{} `json:"companyName"`
	CompanySize interface{} `json:"companySize"`
}

type Output struct {
	LeadScore      *int   `json:"leadScore"`
	Scored         bool   `json:"scored"`
	FailureReason  string `json:"failureReason,omitempty"`
	FailureDetails string `json:"failureDetails,omitempty"`
}
