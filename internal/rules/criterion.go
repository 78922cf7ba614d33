// Package rules owns the criterion table: loading, validation and lookup.
// The table is immutable for a run's lifetime and read-only to evaluators.
package rules

import (
	"github.com/Fr3nn3r/ZurichInnovation/constants"
)

// EvaluatorType selects which evaluation procedure a criterion uses.
type EvaluatorType string

const (
	EvalFormat            EvaluatorType = "format"
	EvalOCRConfidence     EvaluatorType = "ocr_confidence"
	EvalGrammarCount      EvaluatorType = "grammar_count"
	EvalCrossClause       EvaluatorType = "cross_clause"
	EvalFuzzy             EvaluatorType = "fuzzy"
	EvalNumericYears      EvaluatorType = "numeric_years"
	EvalNumericAmount     EvaluatorType = "numeric_amount"
	EvalNumericDays       EvaluatorType = "numeric_days"
	EvalNumericPercentage EvaluatorType = "numeric_percentage"
	EvalPresenceInverse   EvaluatorType = "presence_inverse"
)

// Pattern tier keys. Indicator phrases are language-mixed (German/English).
const (
	TierGreen  = "green"
	TierYellow = "yellow"
	TierRed    = "red"
)

// Named threshold keys.
const (
	ThresholdGreen          = "green"
	ThresholdYellow         = "yellow"
	ThresholdRed            = "red"
	ThresholdGreenMin       = "green_min"
	ThresholdYellowMin      = "yellow_min"
	ThresholdGreenMax       = "green_max"
	ThresholdYellowMax      = "yellow_max"
	ThresholdGreenMaxYears  = "green_max_years"
	ThresholdGreenMinDays   = "green_min_days"
	ThresholdGreenMaxPct    = "green_max_percent"
	ThresholdAmountPresence = "amount_presence" // 1 = only check that an amount exists
)

// Criterion is one compliance check from the rule table. The pattern sets
// and thresholds present are exactly those the evaluator type requires;
// Load enforces this before the engine ever sees the table.
type Criterion struct {
	ID         int                 `json:"id"`
	Name       string              `json:"name"`
	Severity   constants.Severity  `json:"severity"`
	Type       EvaluatorType       `json:"type"`
	Patterns   map[string][]string `json:"patterns,omitempty"`
	Thresholds map[string]float64  `json:"thresholds,omitempty"`
}

// Table is the ordered criterion set for one run.
type Table struct {
	Criteria []Criterion
	byID     map[int]*Criterion
}

func newTable(criteria []Criterion) *Table {
	t := &Table{Criteria: criteria, byID: make(map[int]*Criterion, len(criteria))}
	for i := range criteria {
		t.byID[criteria[i].ID] = &criteria[i]
	}
	return t
}

// ByID returns the criterion with the given identifier, or nil.
func (t *Table) ByID(id int) *Criterion {
	return t.byID[id]
}

func (t *Table) Len() int {
	return len(t.Criteria)
}
