package scoring

import (
	commonerrors "lead-scoring-workers/internal/common/errors"
)

// Derived column names appended to every scored table.
const (
	ColumnLeadScore      = "lead_score"
	ColumnCategory       = "category"
	ColumnNeed           = "need"
	ColumnRecommendation = "recommendation"
)

// DerivedColumns lists the appended columns in output order.
var DerivedColumns = []string{ColumnLeadScore, ColumnCategory, ColumnNeed, ColumnRecommendation}

// Table is a column-ordered set of rows keyed by column name.
type Table struct {
	Columns []string                 `json:"columns"`
	Rows    []map[string]interface{} `json:"rows"`
}

// FieldMapping names the column holding each lead field. Message is required;
// the company columns are optional and fall back to defaults when absent.
type FieldMapping struct {
	Message     string `json:"message"`
	CompanyName string `json:"companyName,omitempty"`
	CompanySize string `json:"companySize,omitempty"`
}

func DefaultFieldMapping() FieldMapping {
	return FieldMapping{Message: "message", CompanyName: "company_name", CompanySize: "company_size"}
}

// Validate checks the mapping against the table header once, before any row is read.
func (m FieldMapping) Validate(columns []string) error {
	if m.Message == "" {
		return commonerrors.NewMissingRequiredColumnError("message", "")
	}
	for _, c := range columns {
		if c == m.Message {
			return nil
		}
	}
	return commonerrors.NewMissingRequiredColumnError("message", m.Message)
}

// LeadFromRow extracts a Lead from row. Company lookups tolerate unmapped or missing keys.
func (m FieldMapping) LeadFromRow(row map[string]interface{}, d Defaults) Lead {
	var companyName, companySize interface{}
	if m.CompanyName != "" {
		companyName = row[m.CompanyName]
	}
	if m.CompanySize != "" {
		companySize = row[m.CompanySize]
	}
	return NewLead(row[m.Message], companyName, companySize, d)
}

// outputColumns appends the derived columns, skipping any already present.
func outputColumns(columns []string) []string {
	out := make([]string, 0, len(columns)+len(DerivedColumns))
	out = append(out, columns...)
	seen := make(map[string]bool, len(columns))
	for _, c := range columns {
		seen[c] = true
	}
	for _, c := range DerivedColumns {
		if !seen[c] {
			out = append(out, c)
		}
	}
	return out
}
