package pipeline

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Fr3nn3r/ZurichInnovation/constants"
	"github.com/Fr3nn3r/ZurichInnovation/internal/common"
	"github.com/Fr3nn3r/ZurichInnovation/internal/engine"
	"github.com/Fr3nn3r/ZurichInnovation/internal/entity"
	"github.com/Fr3nn3r/ZurichInnovation/internal/gate"
	"github.com/Fr3nn3r/ZurichInnovation/internal/rules"
)

func newTestProcessor(t *testing.T) *Processor {
	t.Helper()
	table, err := rules.Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := common.GateConfig{
		MinTextLength:  50,
		MinAlnumRatio:  0.6,
		MaxSymbolRatio: 0.2,
		MinByteRatio:   0.001,
		Workers:        2,
	}
	retry := common.FallbackConfig{MaxAttempts: 1, Backoff: time.Millisecond, Timeout: time.Second}
	g := gate.New(cfg, retry, nil, logger)
	e := engine.New(table, logger, engine.WithWorkers(2))
	return NewProcessor(logger, g, e, time.Minute)
}

func usablePage(idx int, text string) entity.Page {
	return entity.Page{Index: idx, Text: text, HasExtractableText: true, ByteSize: len(text) * 10}
}

func TestProcessFirstDemandGuaranteeIsRed(t *testing.T) {
	p := newTestProcessor(t)
	conf := 95.0
	issues := 0

	doc := entity.DocumentInput{
		ID:      uuid.New(),
		Name:    "buergschaft_mustermann.pdf",
		FileExt: "pdf",
		Pages: []entity.Page{
			usablePage(0, "Bürgschaftsurkunde. Wir, die Bank, übernehmen hiermit die "+
				"selbstschuldnerische Bürgschaft bis zum Höchstbetrag von 100.000,00 EUR."),
			usablePage(1, "Die Bürgschaft ist zahlbar auf erstes schriftliches Anfordern "+
				"innerhalb von 30 Tagen. Gerichtsstand ist Frankfurt am Main."),
		},
		Signals: entity.Signals{OCRConfidence: &conf, GrammarIssues: &issues},
	}

	v, err := p.Process(context.Background(), doc)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if v.Overall != constants.FlagRed {
		t.Fatalf("Overall = %s, want RED", v.Overall)
	}
	if len(v.Pages) != 2 {
		t.Fatalf("got %d page verdicts, want 2", len(v.Pages))
	}
	for _, pv := range v.Pages {
		if pv.Status != constants.PageUsable {
			t.Errorf("page %d: status %s, want USABLE", pv.PageIndex, pv.Status)
		}
	}

	var paymentFinding bool
	for _, f := range v.Findings {
		if f.CriterionID == 7 && f.Flag == constants.FlagRed {
			paymentFinding = true
		}
	}
	if !paymentFinding {
		t.Errorf("payment obligation finding missing: %+v", v.Findings)
	}
	if v.Elapsed <= 0 {
		t.Errorf("Elapsed = %v, want > 0", v.Elapsed)
	}
}

func TestProcessCompliantGuaranteeIsNotRed(t *testing.T) {
	p := newTestProcessor(t)
	conf := 96.0
	issues := 0

	doc := entity.DocumentInput{
		ID:      uuid.New(),
		Name:    "buergschaft_ok.pdf",
		FileExt: "pdf",
		Pages: []entity.Page{
			usablePage(0, "Guarantee deed. We guarantee up to a maximum amount of 250,000.00 EUR. "+
				"Payment upon written confirmation of non-performance within 45 days. "+
				"The guarantee is valid for 3 years. This guarantee is governed by German law."),
		},
		Signals: entity.Signals{OCRConfidence: &conf, GrammarIssues: &issues},
	}

	v, err := p.Process(context.Background(), doc)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if v.Overall == constants.FlagRed {
		t.Fatalf("Overall = RED for compliant document: %+v", v.Findings)
	}
}
