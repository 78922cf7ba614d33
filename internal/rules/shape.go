package rules

import (
	"sort"

	"github.com/Fr3nn3r/ZurichInnovation/internal/common"
)

// shape declares which pattern tiers and thresholds an evaluator type
// requires and which it may optionally carry. Anything outside
// required+optional is rejected: a stray tier usually means a mistyped
// rule, not a feature.
type shape struct {
	requiredPatterns   []string
	optionalPatterns   []string
	requiredThresholds []string
	optionalThresholds []string
}

var shapes = map[EvaluatorType]shape{
	EvalFuzzy: {
		requiredPatterns:   []string{TierGreen, TierYellow, TierRed},
		requiredThresholds: []string{ThresholdGreen, ThresholdYellow, ThresholdRed},
	},
	EvalPresenceInverse: {
		// No yellow tier exists for this type: a forbidden term is either
		// present or it is not.
		requiredPatterns: []string{TierRed},
	},
	EvalOCRConfidence: {
		requiredThresholds: []string{ThresholdGreenMin, ThresholdYellowMin},
	},
	EvalGrammarCount: {
		requiredThresholds: []string{ThresholdGreenMax, ThresholdYellowMax},
	},
	EvalNumericYears: {
		requiredThresholds: []string{ThresholdGreenMaxYears},
	},
	EvalNumericAmount: {
		requiredThresholds: []string{ThresholdAmountPresence},
	},
	EvalNumericDays: {
		requiredThresholds: []string{ThresholdGreenMinDays},
		optionalPatterns:   []string{TierYellow},
	},
	EvalNumericPercentage: {
		requiredThresholds: []string{ThresholdGreenMaxPct},
	},
	EvalCrossClause: {
		requiredPatterns: []string{TierRed},
	},
	EvalFormat: {
		requiredPatterns: []string{TierGreen, TierYellow, TierRed},
	},
}

// validateShape checks one criterion against its evaluator type's shape.
// Any violation is a fatal configuration error.
func validateShape(c Criterion) error {
	sh, ok := shapes[c.Type]
	if !ok {
		return common.ConfigErrorf("criterion %d (%s): unknown evaluator type %q", c.ID, c.Name, c.Type)
	}

	if err := checkKeys("pattern tier", c.ID, c.Name, patternKeys(c), sh.requiredPatterns, sh.optionalPatterns); err != nil {
		return err
	}
	if err := checkKeys("threshold", c.ID, c.Name, thresholdKeys(c), sh.requiredThresholds, sh.optionalThresholds); err != nil {
		return err
	}

	for tier, phrases := range c.Patterns {
		if len(phrases) == 0 {
			return common.ConfigErrorf("criterion %d (%s): empty %s pattern list", c.ID, c.Name, tier)
		}
	}
	return nil
}

func checkKeys(kind string, id int, name string, present, required, optional []string) error {
	allowed := make(map[string]bool, len(required)+len(optional))
	for _, k := range required {
		allowed[k] = true
	}
	for _, k := range optional {
		allowed[k] = true
	}

	presentSet := make(map[string]bool, len(present))
	for _, k := range present {
		presentSet[k] = true
		if !allowed[k] {
			return common.ConfigErrorf("criterion %d (%s): unexpected %s %q", id, name, kind, k)
		}
	}
	for _, k := range required {
		if !presentSet[k] {
			return common.ConfigErrorf("criterion %d (%s): missing %s %q", id, name, kind, k)
		}
	}
	return nil
}

func patternKeys(c Criterion) []string {
	keys := make([]string, 0, len(c.Patterns))
	for k := range c.Patterns {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func thresholdKeys(c Criterion) []string {
	keys := make([]string, 0, len(c.Thresholds))
	for k := range c.Thresholds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
