// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Intent scoring outcomes. These double as ScoreResult reasons.
	ErrCodeLLMRequestFailed ErrorCode = "LLM_REQUEST_FAILED"
	ErrCodeLLMTimeout       ErrorCode = "LLM_TIMEOUT"
	ErrCodeMalformedReply   ErrorCode = "MALFORMED_REPLY"
	ErrCodeScoreOutOfRange  ErrorCode = "SCORE_OUT_OF_RANGE"
	ErrCodeMissingMessage   ErrorCode = "MISSING_MESSAGE"
	ErrCodeScoringCancelled ErrorCode = "SCORING_CANCELLED"

	// Batch / input validation
	ErrCodeMissingRequiredColumn ErrorCode = "MISSING_REQUIRED_COLUMN"
	ErrCodeInvalidInput          ErrorCode = "INVALID_INPUT"

	// Downstream integrations
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeCRMAPIError            ErrorCode = "CRM_API_ERROR"
	ErrCodeCRMNotConfigured       ErrorCode = "CRM_NOT_CONFIGURED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// WithMetadata attaches a key to the error metadata and returns the error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// NewLLMRequestFailedError wraps a transport, auth or HTTP status failure from the completion service.
func NewLLMRequestFailedError(err error) *StandardError {
	return newError(ErrCodeLLMRequestFailed, "Completion service request failed", err.Error(), true)
}

// NewLLMTimeoutError reports a completion call that exceeded its deadline.
func NewLLMTimeoutError(timeout time.Duration) *StandardError {
	return newError(ErrCodeLLMTimeout, "Completion service timeout",
		fmt.Sprintf("call exceeded %s", timeout), true)
}

// NewMalformedReplyError reports a reply that is not a single integer.
func NewMalformedReplyError(reply string) *StandardError {
	return newError(ErrCodeMalformedReply, "Completion reply is not an integer",
		fmt.Sprintf("reply: %q", reply), false)
}

// NewScoreOutOfRangeError reports an integer reply outside the accepted range.
func NewScoreOutOfRangeError(score, min, max int) *StandardError {
	return newError(ErrCodeScoreOutOfRange, "Score outside accepted range",
		fmt.Sprintf("score %d not in [%d,%d]", score, min, max), false)
}

// NewMissingMessageError reports a lead whose message cell is not text.
func NewMissingMessageError() *StandardError {
	return newError(ErrCodeMissingMessage, "Lead message is missing or not text", "", false)
}

// NewScoringCancelledError marks a lead that was never scored because the batch was cancelled.
func NewScoringCancelledError(err error) *StandardError {
	return newError(ErrCodeScoringCancelled, "Scoring cancelled before this lead was reached", err.Error(), false)
}

// NewMissingRequiredColumnError reports a field mapping that names an absent column.
func NewMissingRequiredColumnError(field, column string) *StandardError {
	return newError(ErrCodeMissingRequiredColumn, "missing required column",
		fmt.Sprintf("field %s maps to column %q which is not present", field, column), false).
		WithMetadata("column", column)
}

// NewInvalidInputError reports job variables that fail validation.
func NewInvalidInputError(details string) *StandardError {
	return newError(ErrCodeInvalidInput, "Invalid input", details, false)
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return newError(ErrCodeNotificationSendFailed, "Notification delivery failed",
		fmt.Sprintf("channel: %s, error: %s", channel, err.Error()), true)
}

// NewCRMAPIError creates a retryable CRM API error.
func NewCRMAPIError(operation string, err error) *StandardError {
	return newError(ErrCodeCRMAPIError, "CRM API request failed",
		fmt.Sprintf("operation: %s, error: %s", operation, err.Error()), true)
}

// NewCRMNotConfiguredError reports a CRM sync attempted without credentials.
func NewCRMNotConfiguredError() *StandardError {
	return newError(ErrCodeCRMNotConfigured, "CRM integration is not configured", "", false)
}

// NewInternalError wraps an unexpected failure.
func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), false)
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeLLMRequestFailed:       "LLM_REQUEST_FAILED",
	ErrCodeLLMTimeout:             "LLM_TIMEOUT",
	ErrCodeMalformedReply:         "MALFORMED_REPLY",
	ErrCodeScoreOutOfRange:        "SCORE_OUT_OF_RANGE",
	ErrCodeMissingMessage:         "MISSING_MESSAGE",
	ErrCodeScoringCancelled:       "SCORING_CANCELLED",
	ErrCodeMissingRequiredColumn:  "MISSING_REQUIRED_COLUMN",
	ErrCodeInvalidInput:           "INVALID_INPUT",
	ErrCodeNotificationSendFailed: "NOTIFICATION_SEND_FAILED",
	ErrCodeCRMAPIError:            "CRM_API_ERROR",
	ErrCodeCRMNotConfigured:       "CRM_NOT_CONFIGURED",
	ErrCodeInternal:               "INTERNAL_ERROR",
}

// GetRetryCount returns the recommended job retry count for an error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeNotificationSendFailed,
		ErrCodeCRMAPIError,
		ErrCodeLLMRequestFailed:
		return 3

	case ErrCodeLLMTimeout:
		return 1

	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "LLM") || strings.Contains(codeStr, "REPLY") || strings.Contains(codeStr, "SCORE"):
		return "AI"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.HasPrefix(codeStr, "CRM"):
		return "CRM"
	case strings.Contains(codeStr, "CANCELLED"):
		return "CANCELLATION"
	case strings.Contains(codeStr, "MISSING") || strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
