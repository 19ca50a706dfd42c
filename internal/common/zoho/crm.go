package zoho

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	httpclient "lead-scoring-workers/internal/common/http"
)

const DefaultBaseURL = "https://www.zohoapis.com/crm/v3"

type CRMClient struct {
	oauthToken string
	baseURL    string
	http       *httpclient.Client
}

// Lead is a Zoho CRM lead record. The Lead_* fields past Lead_Source are
// custom fields populated by the scoring workers.
type Lead struct {
	ID              string `json:"id,omitempty"`
	FirstName       string `json:"First_Name,omitempty"`
	LastName        string `json:"Last_Name"`
	Email           string `json:"Email,omitempty"`
	Company         string `json:"Company"`
	Description     string `json:"Description,omitempty"`
	Source          string `json:"Lead_Source,omitempty"`
	LeadScore       *int   `json:"Lead_Score"`
	LeadTemperature string `json:"Lead_Temperature,omitempty"`
	LeadNeed        string `json:"Lead_Need,omitempty"`
	NextAction      string `json:"Next_Action,omitempty"`
}

type writeResponse struct {
	Data []struct {
		Code    string `json:"code"`
		Details struct {
			ID string `json:"id"`
		} `json:"details"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"data"`
}

func NewCRMClient(baseURL, oauthToken string, timeout time.Duration) *CRMClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &CRMClient{
		oauthToken: oauthToken,
		baseURL:    strings.TrimRight(baseURL, "/"),
		http:       httpclient.NewClient(timeout),
	}
}

func (c *CRMClient) headers() map[string]string {
	return map[string]string{"Authorization": "Zoho-oauthtoken " + c.oauthToken}
}

// SearchLeadsByEmail returns leads whose Email matches. A 204 from Zoho means no match.
func (c *CRMClient) SearchLeadsByEmail(ctx context.Context, email string) ([]Lead, error) {
	endpoint := fmt.Sprintf("%s/Leads/search?email=%s", c.baseURL, url.QueryEscape(email))

	var result struct {
		Data []Lead `json:"data"`
	}
	if err := c.http.DoJSON(ctx, http.MethodGet, endpoint, c.headers(), nil, &result); err != nil {
		return nil, fmt.Errorf("failed to search leads: %w", err)
	}
	return result.Data, nil
}

func (c *CRMClient) CreateLead(ctx context.Context, lead *Lead) (string, error) {
	var resp writeResponse
	payload := map[string]interface{}{"data": []Lead{*lead}}
	if err := c.http.DoJSON(ctx, http.MethodPost, c.baseURL+"/Leads", c.headers(), payload, &resp); err != nil {
		return "", fmt.Errorf("failed to create lead: %w", err)
	}
	return firstID(resp, "lead creation failed")
}

func (c *CRMClient) UpdateLead(ctx context.Context, leadID string, lead *Lead) (string, error) {
	update := *lead
	update.ID = ""

	var resp writeResponse
	payload := map[string]interface{}{"data": []Lead{update}}
	endpoint := fmt.Sprintf("%s/Leads/%s", c.baseURL, url.PathEscape(leadID))
	if err := c.http.DoJSON(ctx, http.MethodPut, endpoint, c.headers(), payload, &resp); err != nil {
		return "", fmt.Errorf("failed to update lead: %w", err)
	}
	id, err := firstID(resp, "lead update failed")
	if err != nil {
		return "", err
	}
	if id == "" {
		id = leadID
	}
	return id, nil
}

// IsClientError reports whether err came from a 4xx response, which a retry will not fix.
func IsClientError(err error) bool {
	var statusErr *httpclient.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= 400 && statusErr.StatusCode < 500 && statusErr.StatusCode != http.StatusTooManyRequests
	}
	return false
}

func firstID(resp writeResponse, failure string) (string, error) {
	if len(resp.Data) == 0 {
		return "", fmt.Errorf("no data in response")
	}
	if resp.Data[0].Status != "success" {
		return "", fmt.Errorf("%s: %s", failure, resp.Data[0].Message)
	}
	return resp.Data[0].Details.ID, nil
}
