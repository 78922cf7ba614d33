package engine

import (
	"context"
	"reflect"
	"sync"
	"testing"

	"github.com/Fr3nn3r/ZurichInnovation/constants"
	"github.com/Fr3nn3r/ZurichInnovation/internal/entity"
	"github.com/Fr3nn3r/ZurichInnovation/internal/rules"
)

func fuzzyCriterion() rules.Criterion {
	return rules.Criterion{
		ID:       7,
		Name:     "Payment Obligation",
		Severity: constants.SeverityCritical,
		Type:     rules.EvalFuzzy,
		Patterns: map[string][]string{
			rules.TierGreen:  {"payment upon written confirmation of non-performance"},
			rules.TierYellow: {"payable without undue delay"},
			rules.TierRed:    {"payable on first demand", "auf erstes Anfordern"},
		},
		Thresholds: map[string]float64{
			rules.ThresholdGreen:  90,
			rules.ThresholdYellow: 80,
			rules.ThresholdRed:    85,
		},
	}
}

func numericCriterion(id int, typ rules.EvaluatorType, thresholds map[string]float64) rules.Criterion {
	return rules.Criterion{
		ID:         id,
		Name:       "numeric",
		Severity:   constants.SeverityMedium,
		Type:       typ,
		Thresholds: thresholds,
	}
}

func TestEvalFuzzyRedWinsOverGreen(t *testing.T) {
	e := New(nil, nil)
	text := "Payment upon written confirmation of non-performance. " +
		"Nonetheless this guarantee is payable on first demand."

	res := e.evalFuzzy(fuzzyCriterion(), text)
	if res.Flag != constants.FlagRed {
		t.Fatalf("Flag = %s, want RED", res.Flag)
	}
	if res.Evidence.Phrase != "payable on first demand" {
		t.Errorf("Evidence.Phrase = %q", res.Evidence.Phrase)
	}
	if res.Evidence.Location < 0 {
		t.Errorf("Evidence.Location = %d, want >= 0", res.Evidence.Location)
	}
}

func TestEvalFuzzyDiacriticsAndCase(t *testing.T) {
	e := New(nil, nil)
	res := e.evalFuzzy(fuzzyCriterion(), "Die Bürgschaft ist AUF ERSTES ANFORDERN zahlbar.")
	if res.Flag != constants.FlagRed {
		t.Fatalf("Flag = %s, want RED", res.Flag)
	}
	if res.Confidence < 85 {
		t.Errorf("Confidence = %.1f, want >= 85", res.Confidence)
	}
}

func TestEvalFuzzyNoTierIsUnknown(t *testing.T) {
	e := New(nil, nil)
	res := e.evalFuzzy(fuzzyCriterion(), "Der Mietvertrag beginnt am ersten April.")
	if res.Flag != constants.FlagUnknown {
		t.Fatalf("Flag = %s, want UNKNOWN", res.Flag)
	}
}

func TestEvalFuzzyDeterministic(t *testing.T) {
	e := New(nil, nil)
	text := "This guarantee shall be payable on first demand of the beneficiary."
	first := e.evalFuzzy(fuzzyCriterion(), text)
	for i := 0; i < 20; i++ {
		if got := e.evalFuzzy(fuzzyCriterion(), text); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differs: %+v vs %+v", i, got, first)
		}
	}
}

type memRecorder struct {
	mu    sync.Mutex
	tiers map[string]float64
}

func (r *memRecorder) Record(_ int, tier string, score float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.tiers == nil {
		r.tiers = make(map[string]float64)
	}
	r.tiers[tier] = score
}

func TestEvalFuzzyRecordsEveryTier(t *testing.T) {
	rec := &memRecorder{}
	e := New(nil, nil, WithScoreRecorder(rec))
	e.evalFuzzy(fuzzyCriterion(), "payable on first demand, payable without undue delay")

	for _, tier := range []string{rules.TierGreen, rules.TierYellow, rules.TierRed} {
		if _, ok := rec.tiers[tier]; !ok {
			t.Errorf("tier %s not recorded", tier)
		}
	}
}

func TestEvalNumericYears(t *testing.T) {
	c := numericCriterion(9, rules.EvalNumericYears,
		map[string]float64{rules.ThresholdGreenMaxYears: 6})

	tests := []struct {
		name string
		text string
		want constants.Flag
	}{
		{"within limit", "valid for a period of 5 years from issuance", constants.FlagGreen},
		{"german within limit", "mit einer Laufzeit von 3 Jahren", constants.FlagGreen},
		{"exceeds limit", "valid for 10 years", constants.FlagRed},
		{"no year reference", "valid until released in writing", constants.FlagUnknown},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := evalNumericYears(c, tc.text); got.Flag != tc.want {
				t.Errorf("Flag = %s, want %s", got.Flag, tc.want)
			}
		})
	}
}

func TestEvalNumericDays(t *testing.T) {
	c := numericCriterion(11, rules.EvalNumericDays,
		map[string]float64{rules.ThresholdGreenMinDays: 30})
	c.Patterns = map[string][]string{
		rules.TierYellow: {"innerhalb angemessener Frist", "within a reasonable time"},
	}

	tests := []struct {
		name string
		text string
		want constants.Flag
	}{
		{"meets minimum", "payment within 30 days of demand", constants.FlagGreen},
		{"german meets minimum", "Zahlung innerhalb von 45 Tagen", constants.FlagGreen},
		{"below minimum", "payment within 5 days", constants.FlagRed},
		{"vague term", "payment within a reasonable time", constants.FlagYellow},
		{"no period at all", "payment terms as agreed separately", constants.FlagUnknown},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := evalNumericDays(c, tc.text); got.Flag != tc.want {
				t.Errorf("Flag = %s, want %s", got.Flag, tc.want)
			}
		})
	}
}

func TestEvalNumericAmountPresence(t *testing.T) {
	c := numericCriterion(10, rules.EvalNumericAmount,
		map[string]float64{rules.ThresholdAmountPresence: 1})

	tests := []struct {
		name string
		text string
		want constants.Flag
	}{
		{"grouped amount", "bis zu einem Höchstbetrag von 100.000,00 EUR", constants.FlagGreen},
		{"currency mark", "up to a maximum of €250,000", constants.FlagGreen},
		{"decimal amount", "limited to 5000.00", constants.FlagGreen},
		{"absent", "up to the agreed maximum amount", constants.FlagRed},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := evalNumericAmount(c, tc.text); got.Flag != tc.want {
				t.Errorf("Flag = %s, want %s", got.Flag, tc.want)
			}
		})
	}
}

func TestEvalNumericPercentage(t *testing.T) {
	c := numericCriterion(12, rules.EvalNumericPercentage,
		map[string]float64{rules.ThresholdGreenMaxPct: 10})

	tests := []struct {
		name string
		text string
		want constants.Flag
	}{
		{"within limit", "retention of 5 % of the contract sum", constants.FlagGreen},
		{"decimal comma", "Sicherheitseinbehalt von 7,5%", constants.FlagGreen},
		{"exceeds limit", "retention of 15% of the contract sum", constants.FlagRed},
		{"absent", "retention as customary", constants.FlagUnknown},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := evalNumericPercentage(c, tc.text); got.Flag != tc.want {
				t.Errorf("Flag = %s, want %s", got.Flag, tc.want)
			}
		})
	}
}

func TestEvalPresenceInverse(t *testing.T) {
	c := rules.Criterion{
		ID:       13,
		Name:     "Forbidden Clauses",
		Severity: constants.SeverityCritical,
		Type:     rules.EvalPresenceInverse,
		Patterns: map[string][]string{
			rules.TierRed: {"notarielle Beurkundung erforderlich"},
		},
	}

	if got := evalPresenceInverse(c, "Für Änderungen ist die notarielle Beurkundung erforderlich."); got.Flag != constants.FlagRed {
		t.Errorf("forbidden term present: Flag = %s, want RED", got.Flag)
	}
	if got := evalPresenceInverse(c, "Änderungen bedürfen der Schriftform."); got.Flag != constants.FlagGreen {
		t.Errorf("forbidden term absent: Flag = %s, want GREEN", got.Flag)
	}
}

func TestEvalFormat(t *testing.T) {
	c := rules.Criterion{
		ID:       1,
		Name:     "Document Format",
		Severity: constants.SeverityMedium,
		Type:     rules.EvalFormat,
		Patterns: map[string][]string{
			rules.TierGreen:  {"pdf", "docx"},
			rules.TierYellow: {"tiff", "png"},
			rules.TierRed:    {"jpg", "jpeg"},
		},
	}

	tests := []struct {
		ext  string
		want constants.Flag
	}{
		{".pdf", constants.FlagGreen},
		{"PNG", constants.FlagYellow},
		{".JPG", constants.FlagRed},
		{"xyz", constants.FlagUnknown},
	}
	for _, tc := range tests {
		if got := evalFormat(c, tc.ext); got.Flag != tc.want {
			t.Errorf("evalFormat(%q) = %s, want %s", tc.ext, got.Flag, tc.want)
		}
	}
}

func TestEvalCrossClause(t *testing.T) {
	c := rules.Criterion{
		ID:       6,
		Name:     "Internal Consistency",
		Severity: constants.SeverityCritical,
		Type:     rules.EvalCrossClause,
		Patterns: map[string][]string{
			rules.TierRed: {"abweichende Beträge"},
		},
	}

	t.Run("conflicting amounts", func(t *testing.T) {
		clauses := []string{
			"Wir verbürgen uns bis zum Höchstbetrag von 100.000,00 EUR.",
			"Die Bürgschaft ist begrenzt auf 150.000,00 EUR.",
		}
		got := evalCrossClause(c, "", clauses)
		if got.Flag != constants.FlagRed {
			t.Fatalf("Flag = %s, want RED", got.Flag)
		}
	})

	t.Run("consistent amounts", func(t *testing.T) {
		clauses := []string{
			"Wir verbürgen uns bis zum Höchstbetrag von 100.000,00 EUR.",
			"Zahlungen unter dieser Bürgschaft sind begrenzt auf 100.000,00 EUR.",
		}
		got := evalCrossClause(c, "", clauses)
		if got.Flag != constants.FlagGreen {
			t.Fatalf("Flag = %s, want GREEN", got.Flag)
		}
	})

	t.Run("separator styles compare equal", func(t *testing.T) {
		clauses := []string{
			"limited to a maximum of 100,000.00 EUR",
			"begrenzt auf 100.000,00 EUR",
		}
		got := evalCrossClause(c, "", clauses)
		if got.Flag != constants.FlagGreen {
			t.Fatalf("Flag = %s, want GREEN", got.Flag)
		}
	})

	t.Run("no repeated values", func(t *testing.T) {
		clauses := []string{"Gerichtsstand ist Frankfurt am Main."}
		got := evalCrossClause(c, "", clauses)
		if got.Flag != constants.FlagUnknown {
			t.Fatalf("Flag = %s, want UNKNOWN", got.Flag)
		}
	})

	t.Run("contradiction wording", func(t *testing.T) {
		text := "Abweichende Beträge in den Anlagen sind unbeachtlich."
		got := evalCrossClause(c, text, []string{text})
		if got.Flag != constants.FlagRed {
			t.Fatalf("Flag = %s, want RED", got.Flag)
		}
	})
}

func TestEvalSignals(t *testing.T) {
	conf := func(v float64) *float64 { return &v }
	issues := func(n int) *int { return &n }

	ocrC := numericCriterion(2, rules.EvalOCRConfidence,
		map[string]float64{rules.ThresholdGreenMin: 85, rules.ThresholdYellowMin: 65})
	grammarC := numericCriterion(3, rules.EvalGrammarCount,
		map[string]float64{rules.ThresholdGreenMax: 0, rules.ThresholdYellowMax: 5})

	tests := []struct {
		name string
		got  constants.Flag
		want constants.Flag
	}{
		{"ocr green", evalOCRConfidence(ocrC, entity.Signals{OCRConfidence: conf(92)}).Flag, constants.FlagGreen},
		{"ocr yellow", evalOCRConfidence(ocrC, entity.Signals{OCRConfidence: conf(70)}).Flag, constants.FlagYellow},
		{"ocr red", evalOCRConfidence(ocrC, entity.Signals{OCRConfidence: conf(40)}).Flag, constants.FlagRed},
		{"ocr missing", evalOCRConfidence(ocrC, entity.Signals{}).Flag, constants.FlagUnknown},
		{"grammar green", evalGrammarCount(grammarC, entity.Signals{GrammarIssues: issues(0)}).Flag, constants.FlagGreen},
		{"grammar yellow", evalGrammarCount(grammarC, entity.Signals{GrammarIssues: issues(3)}).Flag, constants.FlagYellow},
		{"grammar red", evalGrammarCount(grammarC, entity.Signals{GrammarIssues: issues(12)}).Flag, constants.FlagRed},
		{"grammar missing", evalGrammarCount(grammarC, entity.Signals{}).Flag, constants.FlagUnknown},
	}
	for _, tc := range tests {
		if tc.got != tc.want {
			t.Errorf("%s: Flag = %s, want %s", tc.name, tc.got, tc.want)
		}
	}
}

func TestEvaluateFullTable(t *testing.T) {
	table, err := rules.Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}

	conf := 95.0
	issues := 0
	text := "Bürgschaftsurkunde. Wir, die Bank, verbürgen uns hiermit " +
		"unwiderruflich gegenüber dem Auftraggeber bis zum Höchstbetrag von " +
		"100.000,00 EUR. Die Bürgschaft ist zahlbar auf erstes schriftliches " +
		"Anfordern innerhalb von 30 Tagen. Es gilt deutsches Recht. " +
		"Gerichtsstand ist Frankfurt am Main."

	e := New(table, nil, WithWorkers(3))
	results, err := e.Evaluate(context.Background(), Input{
		Text:    text,
		FileExt: "pdf",
		Clauses: []string{text},
		Signals: entity.Signals{OCRConfidence: &conf, GrammarIssues: &issues},
	})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(results) != table.Len() {
		t.Fatalf("got %d results, want %d", len(results), table.Len())
	}

	byID := make(map[int]constants.Flag)
	for _, r := range results {
		if !r.Flag.Valid() {
			t.Errorf("criterion %d: invalid flag %q", r.CriterionID, r.Flag)
		}
		byID[r.CriterionID] = r.Flag
	}
	if byID[7] != constants.FlagRed {
		t.Errorf("payment obligation = %s, want RED", byID[7])
	}
	if byID[1] != constants.FlagGreen {
		t.Errorf("document format = %s, want GREEN", byID[1])
	}
	if byID[10] != constants.FlagGreen {
		t.Errorf("guarantee amount = %s, want GREEN", byID[10])
	}
	if byID[11] != constants.FlagGreen {
		t.Errorf("payment period = %s, want GREEN", byID[11])
	}
}

func TestEvaluateExpiredContextIsUnknown(t *testing.T) {
	table, err := rules.Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := New(table, nil)
	results, err := e.Evaluate(ctx, Input{Text: "payable on first demand", FileExt: "pdf"})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	for _, r := range results {
		if r.Flag != constants.FlagUnknown {
			t.Errorf("criterion %d: Flag = %s, want UNKNOWN after timeout", r.CriterionID, r.Flag)
		}
	}
}
