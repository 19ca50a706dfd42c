// Package scoring turns a sales lead into an intent score, a temperature
// category, a need bucket and a recommended next action.
package scoring

import (
	"fmt"
	"strings"
)

const (
	DefaultCompanyName = "no data"
	DefaultCompanySize = "small"
)

// Lead is one row of the input table.
type Lead struct {
	Message string
	// HasMessage is false when the message cell was missing or not text.
	HasMessage  bool
	CompanyName string
	CompanySize string
}

// Defaults are the placeholders used for absent company fields.
type Defaults struct {
	CompanyName string
	CompanySize string
}

// StandardDefaults returns the stock placeholders.
func StandardDefaults() Defaults {
	return Defaults{CompanyName: DefaultCompanyName, CompanySize: DefaultCompanySize}
}

// NewLead builds a Lead from raw cell values. The message keeps its text only
// when it is a string; company fields fall back to defaults when nil or blank.
func NewLead(message, companyName, companySize interface{}, d Defaults) Lead {
	lead := Lead{
		CompanyName: textOr(companyName, d.CompanyName),
		CompanySize: textOr(companySize, d.CompanySize),
	}
	if s, ok := message.(string); ok {
		lead.Message = s
		lead.HasMessage = true
	}
	return lead
}

func textOr(v interface{}, fallback string) string {
	switch t := v.(type) {
	case nil:
		return fallback
	case string:
		if strings.TrimSpace(t) == "" {
			return fallback
		}
		return t
	case float64:
		// JSON numbers arrive as float64; keep whole numbers unadorned.
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprint(t)
	default:
		return fmt.Sprint(t)
	}
}
