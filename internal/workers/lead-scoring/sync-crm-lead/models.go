package synccrmlead

import (
	"context"

	"lead-scoring-workers/internal/common/zoho"
)

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
)

type Input struct {
	Email          string   `json:"email"`
	FirstName      string   `json:"firstName"`
	LastName       string   `json:"lastName"`
	CompanyName    string   `json:"companyName"`
	Message        string   `json:"message"`
	LeadScore      *float64 `json:"leadScore"`
	Category       string   `json:"category"`
	Need           string   `json:"need"`
	Recommendation string   `json:"recommendation"`
}

type Output struct {
	Success bool   `json:"success"`
	LeadID  string `json:"leadId"`
	Action  string `json:"action"`
}

// LeadStore is satisfied by *zoho.CRMClient.
type LeadStore interface {
	SearchLeadsByEmail(ctx context.Context, email string) ([]zoho.Lead, error)
	CreateLead(ctx context.Context, lead *zoho.Lead) (string, error)
	UpdateLead(ctx context.Context, leadID string, lead *zoho.Lead) (string, error)
}
