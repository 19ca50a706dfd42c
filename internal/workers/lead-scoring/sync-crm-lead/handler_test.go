package synccrmlead

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"lead-scoring-workers/internal/common/errors"
	httpclient "lead-scoring-workers/internal/common/http"
	"lead-scoring-workers/internal/common/logger"
	"lead-scoring-workers/internal/common/zoho"
)

// ==========================
// Mock CRM
// ==========================

type MockLeadStore struct {
	mock.Mock
}

func (m *MockLeadStore) SearchLeadsByEmail(ctx context.Context, email string) ([]zoho.Lead, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]zoho.Lead), args.Error(1)
}

func (m *MockLeadStore) CreateLead(ctx context.Context, lead *zoho.Lead) (string, error) {
	args := m.Called(ctx, lead)
	return args.String(0), args.Error(1)
}

func (m *MockLeadStore) UpdateLead(ctx context.Context, id string, lead *zoho.Lead) (string, error) {
	args := m.Called(ctx, id, lead)
	return args.String(0), args.Error(1)
}

func createTestConfig() *Config {
	return &Config{MaxJobsActive: 5, Timeout: 5 * time.Second, LeadSource: "AI Lead Scoring"}
}

func createValidInput() *Input {
	score := 5.0
	return &Input{
		Email:          "ana.ruiz@example.com",
		CompanyName:    "Acme",
		Message:        "Necesito una tienda online",
		LeadScore:      &score,
		Category:       "🟢 Hot",
		Need:           "E-commerce",
		Recommendation: "Contact immediately",
	}
}

// ==========================
// Execute Tests
// ==========================

func TestExecute_CreatesNewLead(t *testing.T) {
	store := new(MockLeadStore)
	store.On("SearchLeadsByEmail", mock.Anything, "ana.ruiz@example.com").Return([]zoho.Lead{}, nil)
	store.On("CreateLead", mock.Anything, mock.MatchedBy(func(l *zoho.Lead) bool {
		return l.LastName == "Ana Ruiz" &&
			l.Company == "Acme" &&
			l.LeadScore != nil && *l.LeadScore == 5 &&
			l.LeadTemperature == "Hot" &&
			l.LeadNeed == "E-commerce" &&
			l.NextAction == "Contact immediately" &&
			l.Source == "AI Lead Scoring"
	})).Return("lead-1", nil)

	h := NewHandler(createTestConfig(), store, logger.NewTestLogger(t))
	out, err := h.Execute(context.Background(), createValidInput())

	require.NoError(t, err)
	assert.Equal(t, &Output{Success: true, LeadID: "lead-1", Action: ActionCreated}, out)
	store.AssertExpectations(t)
}

func TestExecute_UpdatesExistingLead(t *testing.T) {
	store := new(MockLeadStore)
	store.On("SearchLeadsByEmail", mock.Anything, mock.Anything).Return([]zoho.Lead{{ID: "42"}}, nil)
	store.On("UpdateLead", mock.Anything, "42", mock.Anything).Return("42", nil)

	h := NewHandler(createTestConfig(), store, logger.NewTestLogger(t))
	out, err := h.Execute(context.Background(), createValidInput())

	require.NoError(t, err)
	assert.Equal(t, ActionUpdated, out.Action)
	assert.Equal(t, "42", out.LeadID)
	store.AssertNotCalled(t, "CreateLead", mock.Anything, mock.Anything)
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name          string
		setup         func(*MockLeadStore)
		input         *Input
		wantCode      errors.ErrorCode
		wantRetryable bool
	}{
		{
			name:     "invalid email",
			setup:    func(*MockLeadStore) {},
			input:    &Input{Email: "not-an-email"},
			wantCode: errors.ErrCodeInvalidInput,
		},
		{
			name: "search transport error",
			setup: func(m *MockLeadStore) {
				m.On("SearchLeadsByEmail", mock.Anything, mock.Anything).Return(nil, stderrors.New("connection reset"))
			},
			input:         createValidInput(),
			wantCode:      errors.ErrCodeCRMAPIError,
			wantRetryable: true,
		},
		{
			name: "create rejected",
			setup: func(m *MockLeadStore) {
				m.On("SearchLeadsByEmail", mock.Anything, mock.Anything).Return([]zoho.Lead{}, nil)
				m.On("CreateLead", mock.Anything, mock.Anything).
					Return("", fmt.Errorf("failed to create lead: %w", &httpclient.StatusError{StatusCode: 400}))
			},
			input:    createValidInput(),
			wantCode: errors.ErrCodeCRMAPIError,
		},
		{
			name: "update server error",
			setup: func(m *MockLeadStore) {
				m.On("SearchLeadsByEmail", mock.Anything, mock.Anything).Return([]zoho.Lead{{ID: "1"}}, nil)
				m.On("UpdateLead", mock.Anything, "1", mock.Anything).
					Return("", &httpclient.StatusError{StatusCode: 503})
			},
			input:         createValidInput(),
			wantCode:      errors.ErrCodeCRMAPIError,
			wantRetryable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockLeadStore)
			tt.setup(store)

			h := NewHandler(createTestConfig(), store, logger.NewTestLogger(t))
			_, err := h.Execute(context.Background(), tt.input)

			require.Error(t, err)
			stdErr := errors.Normalize(err)
			assert.Equal(t, tt.wantCode, stdErr.Code)
			assert.Equal(t, tt.wantRetryable, stdErr.Retryable)
		})
	}
}

func TestExecute_NotConfigured(t *testing.T) {
	h := NewHandler(createTestConfig(), nil, logger.NewTestLogger(t))
	_, err := h.Execute(context.Background(), createValidInput())
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeCRMNotConfigured, errors.Normalize(err).Code)
}

// ==========================
// Mapping Tests
// ==========================

func TestToLead_Fallbacks(t *testing.T) {
	h := NewHandler(createTestConfig(), nil, logger.NewNoOpLogger())
	half := 3.5

	lead := h.toLead(&Input{
		Email:     "juan_perez@example.com",
		FirstName: "juan",
		Message:   "quiero una página web",
		LeadScore: &half,
		Category:  "Warm",
	})

	assert.Equal(t, "Juan", lead.FirstName)
	assert.Equal(t, "Juan Perez", lead.LastName)
	assert.Equal(t, "no data", lead.Company)
	assert.Nil(t, lead.LeadScore)
	assert.Equal(t, "Warm", lead.LeadTemperature)
	assert.Equal(t, "Website", lead.LeadNeed)
	assert.Equal(t, "Follow up soon", lead.NextAction)
}

func TestToLead_ExplicitLastName(t *testing.T) {
	h := NewHandler(createTestConfig(), nil, logger.NewNoOpLogger())
	lead := h.toLead(&Input{Email: "x@example.com", LastName: "de la cruz"})
	assert.Equal(t, "De La Cruz", lead.LastName)
	assert.Equal(t, "Unknown", lead.LeadTemperature)
	assert.Equal(t, "Review manually", lead.NextAction)
}
