// Package gate decides per page whether machine-recognized text may be
// trusted, and escalates scan-like or gibberish pages to an alternative
// extraction strategy before the rule engine sees them.
package gate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/Fr3nn3r/ZurichInnovation/constants"
	"github.com/Fr3nn3r/ZurichInnovation/internal/common"
	"github.com/Fr3nn3r/ZurichInnovation/internal/entity"
)

// symbolNoise is the small set of characters typical of broken decoding:
// replacement glyphs, box-drawing leaks and CID artifacts.
const symbolNoise = "�□■|#@~^*<>{}[]\\"

// Reason codes carried on ExtractionVerdict for audit.
const (
	ReasonImageOnly   = "image_only"
	ReasonEmptyPage   = "empty_page"
	ReasonTooShort    = "too_short"
	ReasonLowAlnum    = "low_alnum"
	ReasonSymbolNoise = "symbol_noise"
	ReasonSparseText  = "sparse_text"
	ReasonLegible     = "legible"
)

// Result is the gate's output for one document: the assembled text the rule
// engine may trust, the per-page audit log, and visible notes for pages that
// could not be recovered.
type Result struct {
	Text  string
	Pages []entity.ExtractionVerdict
	Notes []string
}

type Gate struct {
	cfg      common.GateConfig
	retry    common.FallbackConfig
	fallback PageExtractor
	logger   *slog.Logger
}

func New(cfg common.GateConfig, retry common.FallbackConfig, fallback PageExtractor, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	return &Gate{cfg: cfg, retry: retry, fallback: fallback, logger: logger}
}

// Classify is the pure per-page decision. It depends on nothing but the page
// itself, so pages can be classified in any order or in parallel, and
// reclassifying an already-usable page yields the same answer.
func (g *Gate) Classify(p entity.Page) entity.ExtractionVerdict {
	text := strings.TrimSpace(p.Text)

	if !p.HasExtractableText {
		if p.HasImage {
			return entity.ExtractionVerdict{
				PageIndex:  p.Index,
				Status:     constants.PageScanLikely,
				Confidence: 0.9,
				Reason:     ReasonImageOnly,
			}
		}
		// Nothing to recover from: no text layer, no image. The page passes
		// through empty rather than being dropped.
		return entity.ExtractionVerdict{
			PageIndex:  p.Index,
			Status:     constants.PageUsable,
			Confidence: 0.5,
			Reason:     ReasonEmptyPage,
		}
	}

	if len([]rune(text)) < g.cfg.MinTextLength {
		return g.gibberish(p, ReasonTooShort)
	}

	total := 0
	alnum := 0
	noise := 0
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			alnum++
		}
		if strings.ContainsRune(symbolNoise, r) {
			noise++
		}
	}
	if total == 0 {
		return g.gibberish(p, ReasonTooShort)
	}

	alnumRatio := float64(alnum) / float64(total)
	noiseRatio := float64(noise) / float64(total)

	if alnumRatio < g.cfg.MinAlnumRatio {
		return g.gibberish(p, ReasonLowAlnum)
	}
	if noiseRatio > g.cfg.MaxSymbolRatio {
		return g.gibberish(p, ReasonSymbolNoise)
	}
	if p.ByteSize > 0 && float64(len(p.Text))/float64(p.ByteSize) < g.cfg.MinByteRatio {
		return g.gibberish(p, ReasonSparseText)
	}

	return entity.ExtractionVerdict{
		PageIndex:  p.Index,
		Status:     constants.PageUsable,
		Confidence: alnumRatio,
		Reason:     ReasonLegible,
	}
}

func (g *Gate) gibberish(p entity.Page, reason string) entity.ExtractionVerdict {
	return entity.ExtractionVerdict{
		PageIndex:  p.Index,
		Status:     constants.PageGibberish,
		Confidence: 0.8,
		Reason:     reason,
	}
}

// Process classifies every page of a document, escalates untrusted pages to
// the fallback extractor, and assembles the final document text in page
// order. Escalated pages that cannot be recovered are excluded with a
// visible note; the document is never aborted for a single bad page.
func (g *Gate) Process(ctx context.Context, doc entity.DocumentInput) Result {
	outcomes := make([]pageOutcome, len(doc.Pages))

	workers := g.cfg.Workers
	if workers > len(doc.Pages) {
		workers = len(doc.Pages)
	}
	indices := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				outcomes[i] = g.processPage(ctx, doc, doc.Pages[i])
			}
		}()
	}
	for i := range doc.Pages {
		indices <- i
	}
	close(indices)
	wg.Wait()

	res := Result{Pages: make([]entity.ExtractionVerdict, 0, len(doc.Pages))}
	var parts []string
	for _, o := range outcomes {
		res.Pages = append(res.Pages, o.verdict)
		if o.note != "" {
			res.Notes = append(res.Notes, o.note)
		}
		if o.verdict.Status != constants.PageUnrecoverable && o.text != "" {
			parts = append(parts, o.text)
		}
	}
	res.Text = strings.Join(parts, "\n")
	return res
}

type pageOutcome struct {
	verdict entity.ExtractionVerdict
	text    string
	note    string
}

func (g *Gate) processPage(ctx context.Context, doc entity.DocumentInput, p entity.Page) (out pageOutcome) {
	verdict := g.Classify(p)

	if !verdict.Status.NeedsFallback() {
		out.verdict = verdict
		out.text = strings.TrimSpace(p.Text)
		return out
	}

	g.logger.Info("gate.page.escalated",
		"document", doc.Name,
		"page", p.Index,
		"status", string(verdict.Status),
		"reason", verdict.Reason,
	)

	text, err := g.escalate(ctx, doc.Name, p)
	if err != nil {
		g.logger.Error("gate.page.unrecoverable", "document", doc.Name, "page", p.Index, "error", err)
		verdict.Status = constants.PageUnrecoverable
		out.verdict = verdict
		out.note = fmt.Sprintf("page %d excluded: fallback extraction failed (%s)", p.Index, verdict.Reason)
		return out
	}

	verdict.Fallback = true
	out.verdict = verdict
	out.text = strings.TrimSpace(text)
	return out
}

// escalate calls the fallback collaborator with bounded attempts and a fixed
// backoff between them. Only this path may block on network I/O.
func (g *Gate) escalate(ctx context.Context, docName string, p entity.Page) (string, error) {
	attempts := g.retry.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		text, err := g.fallback.ExtractPage(ctx, docName, p)
		if err == nil {
			return text, nil
		}
		lastErr = err
		g.logger.Warn("gate.fallback.retry",
			"document", docName,
			"page", p.Index,
			"attempt", attempt,
			"error", err,
		)
		if attempt < attempts {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(g.retry.Backoff):
			}
		}
	}
	return "", lastErr
}
