package scoring

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	commonerrors "lead-scoring-workers/internal/common/errors"
	"lead-scoring-workers/internal/common/logger"
	"lead-scoring-workers/internal/common/metrics"
	"lead-scoring-workers/internal/common/observability"
)

// Evaluation is the full verdict for one lead.
type Evaluation struct {
	Lead           Lead
	Result         ScoreResult
	Category       Category
	Need           Need
	Recommendation string
}

// Summary aggregates a scored table.
type Summary struct {
	Total          int              `json:"total"`
	Scored         int              `json:"scored"`
	Unscored       int              `json:"unscored"`
	ByCategory     map[Category]int `json:"byCategory"`
	ByNeed         map[Need]int     `json:"byNeed"`
	FailureReasons map[string]int   `json:"failureReasons,omitempty"`
}

// ScoredTable is the input table with the derived columns filled in.
type ScoredTable struct {
	Table
	Evaluations []Evaluation `json:"-"`
	Summary     Summary      `json:"summary"`
}

type PipelineConfig struct {
	// Concurrency bounds in-flight scoring calls; values below 1 mean sequential.
	Concurrency int
	Defaults    Defaults
}

// Pipeline composes the scorer with the pure classifiers.
type Pipeline struct {
	scorer *Scorer
	cfg    PipelineConfig
	log    logger.Logger
	obs    *observability.Observability
}

// NewPipeline wires a pipeline. obs may be nil.
func NewPipeline(scorer *Scorer, cfg PipelineConfig, log logger.Logger, obs *observability.Observability) *Pipeline {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.Defaults.CompanyName == "" {
		cfg.Defaults.CompanyName = DefaultCompanyName
	}
	if cfg.Defaults.CompanySize == "" {
		cfg.Defaults.CompanySize = DefaultCompanySize
	}
	return &Pipeline{scorer: scorer, cfg: cfg, log: log, obs: obs}
}

// Defaults returns the placeholders applied to absent company fields.
func (p *Pipeline) Defaults() Defaults {
	return p.cfg.Defaults
}

// WithConcurrency returns a copy of p bounded to n in-flight calls. n < 1 keeps p's bound.
func (p *Pipeline) WithConcurrency(n int) *Pipeline {
	if n < 1 || n == p.cfg.Concurrency {
		return p
	}
	cp := *p
	cp.cfg.Concurrency = n
	return &cp
}

// Evaluate scores and classifies one lead.
func (p *Pipeline) Evaluate(ctx context.Context, lead Lead) Evaluation {
	return p.evaluate(ctx, -1, lead)
}

// Assemble derives category, need and recommendation from a score result.
func Assemble(lead Lead, result ScoreResult) Evaluation {
	category := Categorize(result.Score())
	var message interface{}
	if lead.HasMessage {
		message = lead.Message
	}
	return Evaluation{
		Lead:           lead,
		Result:         result,
		Category:       category,
		Need:           ClassifyNeed(message),
		Recommendation: Recommend(category),
	}
}

// ScoreTable validates mapping against the header, then evaluates every row.
// The output has exactly one row per input row, in input order. Rows not
// reached before ctx is done come back Unknown with SCORING_CANCELLED.
func (p *Pipeline) ScoreTable(ctx context.Context, table Table, mapping FieldMapping) (*ScoredTable, error) {
	if err := mapping.Validate(table.Columns); err != nil {
		return nil, err
	}

	leads := make([]Lead, len(table.Rows))
	for i, row := range table.Rows {
		leads[i] = mapping.LeadFromRow(row, p.cfg.Defaults)
	}

	evals := make([]Evaluation, len(leads))
	reached := make([]bool, len(leads))

	g := new(errgroup.Group)
	g.SetLimit(p.cfg.Concurrency)
	for i := range leads {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			evals[i] = p.evaluate(ctx, i, leads[i])
			reached[i] = true
			return nil
		})
	}
	_ = g.Wait()

	for i := range evals {
		if reached[i] {
			continue
		}
		cause := ctx.Err()
		if cause == nil {
			cause = context.Canceled
		}
		evals[i] = Assemble(leads[i], Err(commonerrors.NewScoringCancelledError(cause)))
		p.record(ctx, i, evals[i])
	}

	return &ScoredTable{
		Table:       Table{Columns: outputColumns(table.Columns), Rows: buildRows(table.Rows, evals)},
		Evaluations: evals,
		Summary:     summarize(evals),
	}, nil
}

func (p *Pipeline) evaluate(ctx context.Context, index int, lead Lead) Evaluation {
	attrs := []attribute.KeyValue{
		attribute.String("lead.company_size", lead.CompanySize),
		attribute.Bool("lead.has_message", lead.HasMessage),
	}
	if index >= 0 {
		attrs = append(attrs, attribute.Int("row.index", index))
	}
	ctx, span := p.obs.StartSpan(ctx, "scoring.evaluate", attrs...)
	defer span.End()

	eval := Assemble(lead, p.scorer.Score(ctx, lead))

	span.SetAttributes(
		attribute.String("lead.category", string(eval.Category)),
		attribute.String("lead.need", string(eval.Need)),
	)
	if !eval.Result.OK() {
		span.SetStatus(codes.Error, string(eval.Result.Reason()))
	}

	p.record(ctx, index, eval)
	return eval
}

// record emits metrics and logs unscored leads. index < 0 means a single lead.
func (p *Pipeline) record(ctx context.Context, index int, eval Evaluation) {
	outcome := eval.Result.Outcome()
	metrics.LeadScoresTotal.WithLabelValues(outcome).Inc()
	metrics.LeadCategoriesTotal.WithLabelValues(string(eval.Category)).Inc()
	metrics.LeadNeedsTotal.WithLabelValues(string(eval.Need)).Inc()
	p.obs.RecordLeadScored(ctx, outcome, string(eval.Category))

	if eval.Result.OK() {
		return
	}

	fields := map[string]interface{}{
		"reason":   string(eval.Result.Reason()),
		"details":  eval.Result.Err().Details,
		"category": string(eval.Category),
	}
	if index >= 0 {
		fields["row"] = index
	}
	p.log.Warn("lead not scored", fields)
}

func buildRows(in []map[string]interface{}, evals []Evaluation) []map[string]interface{} {
	out := make([]map[string]interface{}, len(in))
	for i, row := range in {
		r := make(map[string]interface{}, len(row)+len(DerivedColumns))
		for k, v := range row {
			r[k] = v
		}

		var score interface{}
		if s := evals[i].Result.Score(); s != nil {
			score = *s
		}
		r[ColumnLeadScore] = score
		r[ColumnCategory] = evals[i].Category.Label()
		r[ColumnNeed] = string(evals[i].Need)
		r[ColumnRecommendation] = evals[i].Recommendation
		out[i] = r
	}
	return out
}

func summarize(evals []Evaluation) Summary {
	s := Summary{
		Total:      len(evals),
		ByCategory: make(map[Category]int),
		ByNeed:     make(map[Need]int),
	}
	for _, e := range evals {
		s.ByCategory[e.Category]++
		s.ByNeed[e.Need]++
		if e.Result.OK() {
			s.Scored++
			continue
		}
		s.Unscored++
		if s.FailureReasons == nil {
			s.FailureReasons = make(map[string]int)
		}
		s.FailureReasons[string(e.Result.Reason())]++
	}
	return s
}
