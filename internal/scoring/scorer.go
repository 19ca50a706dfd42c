package scoring

import (
	"context"
	"strconv"
	"strings"
	"time"

	commonerrors "lead-scoring-workers/internal/common/errors"
	"lead-scoring-workers/internal/common/llm"
)

// ScorerConfig controls the single completion call made per lead.
type ScorerConfig struct {
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	// AllowOutOfRange passes integers outside [MinScore, MaxScore] through
	// instead of rejecting them as SCORE_OUT_OF_RANGE.
	AllowOutOfRange bool
}

// Scorer is the intent scorer. It holds no per-call state and is safe for
// concurrent use if its Completer is.
type Scorer struct {
	client llm.Completer
	cfg    ScorerConfig
}

func NewScorer(client llm.Completer, cfg ScorerConfig) *Scorer {
	if cfg.Model == "" {
		cfg.Model = "gpt-3.5-turbo"
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 5
	}
	return &Scorer{client: client, cfg: cfg}
}

// Score asks the completion service to rate lead and parses the reply.
// It makes exactly one call, or none when the lead has no text message.
func (s *Scorer) Score(ctx context.Context, lead Lead) ScoreResult {
	if !lead.HasMessage {
		return Err(commonerrors.NewMissingMessageError())
	}

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	reply, err := s.client.Complete(ctx, llm.Request{
		Prompt:      RenderPrompt(lead),
		Model:       s.cfg.Model,
		Temperature: s.cfg.Temperature,
		MaxTokens:   s.cfg.MaxTokens,
	})
	if err != nil {
		if llm.IsTimeout(err) {
			return Err(commonerrors.NewLLMTimeoutError(s.cfg.Timeout).WithMetadata("cause", err.Error()))
		}
		return Err(commonerrors.NewLLMRequestFailedError(err))
	}

	return ParseScore(reply, s.cfg.AllowOutOfRange)
}

// ParseScore trims reply and reads it as one base-10 integer.
func ParseScore(reply string, allowOutOfRange bool) ScoreResult {
	score, err := strconv.Atoi(strings.TrimSpace(reply))
	if err != nil {
		return Err(commonerrors.NewMalformedReplyError(reply))
	}
	if !allowOutOfRange && (score < MinScore || score > MaxScore) {
		return Err(commonerrors.NewScoreOutOfRangeError(score, MinScore, MaxScore))
	}
	return Ok(score)
}
