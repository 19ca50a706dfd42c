package scoring

import (
	commonerrors "lead-scoring-workers/internal/common/errors"
)

const (
	MinScore = 1
	MaxScore = 5
)

// ScoreResult is either Ok(score) or Err(reason). The zero value is an
// Err with an internal reason.
type ScoreResult struct {
	score int
	ok    bool
	err   *commonerrors.StandardError
}

// Ok wraps a parsed score.
func Ok(score int) ScoreResult {
	return ScoreResult{score: score, ok: true}
}

// Err wraps a failure. The reason is err.Code.
func Err(err *commonerrors.StandardError) ScoreResult {
	return ScoreResult{err: err}
}

// OK reports whether a score is present.
func (r ScoreResult) OK() bool { return r.ok }

// Score returns the score, or nil when absent.
func (r ScoreResult) Score() *int {
	if !r.ok {
		return nil
	}
	s := r.score
	return &s
}

// Reason returns the failure code, or "" for Ok.
func (r ScoreResult) Reason() commonerrors.ErrorCode {
	if r.ok {
		return ""
	}
	if r.err == nil {
		return commonerrors.ErrCodeInternal
	}
	return r.err.Code
}

// Err returns the failure, or nil for Ok.
func (r ScoreResult) Err() *commonerrors.StandardError {
	if r.ok {
		return nil
	}
	if r.err == nil {
		return &commonerrors.StandardError{Code: commonerrors.ErrCodeInternal, Message: "score not computed"}
	}
	return r.err
}

// Outcome labels the result for metrics: "scored" or the failure code.
func (r ScoreResult) Outcome() string {
	if r.ok {
		return "scored"
	}
	return string(r.Reason())
}
