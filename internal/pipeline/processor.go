// Package pipeline coordinates the quality gate and the rule engine into
// one screening pass per document.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/Fr3nn3r/ZurichInnovation/internal/aggregate"
	"github.com/Fr3nn3r/ZurichInnovation/internal/clause"
	"github.com/Fr3nn3r/ZurichInnovation/internal/engine"
	"github.com/Fr3nn3r/ZurichInnovation/internal/entity"
	"github.com/Fr3nn3r/ZurichInnovation/internal/gate"
)

// Processor runs the extraction quality gate, then clause splitting, then
// the rule engine, and folds the results into one document verdict.
type Processor struct {
	Logger  *slog.Logger
	Gate    *gate.Gate
	Engine  *engine.Engine
	Timeout time.Duration
}

func NewProcessor(logger *slog.Logger, g *gate.Gate, e *engine.Engine, timeout time.Duration) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Processor{Logger: logger, Gate: g, Engine: e, Timeout: timeout}
}

// Process screens one document end to end. Gate failures on individual
// pages never abort the document; an engine error means a broken rule
// definition and is returned as-is.
func (p *Processor) Process(ctx context.Context, doc entity.DocumentInput) (entity.DocumentVerdict, error) {
	started := time.Now()

	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	gated := p.Gate.Process(ctx, doc)
	p.Logger.Info("processor.gate.ok",
		"document_id", doc.ID,
		"pages", len(gated.Pages),
		"excluded", len(gated.Notes),
		"text_len", len(gated.Text),
	)

	clauses := clause.Split(gated.Text)
	p.Logger.Debug("processor.clauses.ok", "document_id", doc.ID, "clauses", len(clauses))

	results, err := p.Engine.Evaluate(ctx, engine.Input{
		Text:    gated.Text,
		FileExt: doc.FileExt,
		Clauses: clauses,
		Signals: doc.Signals,
	})
	if err != nil {
		p.Logger.Error("processor.engine.failed", "document_id", doc.ID, "err", err)
		return entity.DocumentVerdict{}, err
	}

	verdict := aggregate.Build(doc.ID, doc.Name, results, gated.Pages, gated.Notes, time.Since(started))
	p.Logger.Info("processor.verdict.ok",
		"document_id", doc.ID,
		"overall", string(verdict.Overall),
		"findings", len(verdict.Findings),
		"unknown", len(verdict.Unknown),
		"elapsed", verdict.Elapsed,
	)
	return verdict, nil
}
