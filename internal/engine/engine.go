// Package engine evaluates gate-approved document text against every
// criterion in the rule table, independently per criterion.
package engine

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Fr3nn3r/ZurichInnovation/constants"
	"github.com/Fr3nn3r/ZurichInnovation/internal/common"
	"github.com/Fr3nn3r/ZurichInnovation/internal/entity"
	"github.com/Fr3nn3r/ZurichInnovation/internal/rules"
)

// ScoreRecorder receives every fuzzy tier score for offline threshold
// calibration. Implementations must be safe for concurrent use.
type ScoreRecorder interface {
	Record(criterionID int, tier string, score float64)
}

// Input is one document as seen by the rule engine: assembled text, the
// declared file type, pre-split clauses, and external quality signals.
type Input struct {
	Text    string
	FileExt string
	Clauses []string
	Signals entity.Signals
}

type Engine struct {
	table   *rules.Table
	workers int
	scores  ScoreRecorder
	logger  *slog.Logger
}

type Option func(*Engine)

func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

func WithScoreRecorder(r ScoreRecorder) Option {
	return func(e *Engine) { e.scores = r }
}

func New(table *rules.Table, logger *slog.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{table: table, workers: 4, logger: logger}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Evaluate produces one CriterionResult per table entry. Criteria are
// evaluated concurrently and never depend on each other. When ctx expires
// before a criterion starts, that criterion resolves as UNKNOWN instead of
// blocking the batch. Evaluation is pure and never retried: an evaluator
// error indicates a definition problem and aborts with a configuration
// error.
func (e *Engine) Evaluate(ctx context.Context, in Input) ([]entity.CriterionResult, error) {
	n := e.table.Len()
	results := make([]entity.CriterionResult, n)
	errs := make([]error, n)

	workers := e.workers
	if workers > n {
		workers = n
	}
	indices := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				c := e.table.Criteria[i]
				if ctx.Err() != nil {
					results[i] = timedOut(c)
					continue
				}
				res, err := e.evaluate(c, in)
				if err != nil {
					errs[i] = err
					continue
				}
				results[i] = res
				e.logger.Debug("engine.criterion.ok",
					"criterion_id", c.ID,
					"flag", string(res.Flag),
				)
			}
		}()
	}
	for i := 0; i < n; i++ {
		indices <- i
	}
	close(indices)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

func (e *Engine) evaluate(c rules.Criterion, in Input) (entity.CriterionResult, error) {
	switch c.Type {
	case rules.EvalFuzzy:
		return e.evalFuzzy(c, in.Text), nil
	case rules.EvalPresenceInverse:
		return evalPresenceInverse(c, in.Text), nil
	case rules.EvalOCRConfidence:
		return evalOCRConfidence(c, in.Signals), nil
	case rules.EvalGrammarCount:
		return evalGrammarCount(c, in.Signals), nil
	case rules.EvalNumericYears:
		return evalNumericYears(c, in.Text), nil
	case rules.EvalNumericAmount:
		return evalNumericAmount(c, in.Text), nil
	case rules.EvalNumericDays:
		return evalNumericDays(c, in.Text), nil
	case rules.EvalNumericPercentage:
		return evalNumericPercentage(c, in.Text), nil
	case rules.EvalCrossClause:
		return evalCrossClause(c, in.Text, in.Clauses), nil
	case rules.EvalFormat:
		return evalFormat(c, in.FileExt), nil
	default:
		// Unreachable after table validation; surfaced, never retried.
		return entity.CriterionResult{}, common.ConfigErrorf("criterion %d: no evaluator for type %q", c.ID, c.Type)
	}
}

func timedOut(c rules.Criterion) entity.CriterionResult {
	return entity.CriterionResult{
		CriterionID: c.ID,
		Name:        c.Name,
		Severity:    c.Severity,
		Flag:        constants.FlagUnknown,
		Evidence:    entity.Evidence{Location: -1, Detail: "document timeout before evaluation"},
	}
}

// base pre-fills the identity fields every evaluator returns.
func base(c rules.Criterion) entity.CriterionResult {
	return entity.CriterionResult{
		CriterionID: c.ID,
		Name:        c.Name,
		Severity:    c.Severity,
		Evidence:    entity.Evidence{Location: -1},
	}
}
