package engine

import (
	"fmt"

	"github.com/Fr3nn3r/ZurichInnovation/constants"
	"github.com/Fr3nn3r/ZurichInnovation/internal/entity"
	"github.com/Fr3nn3r/ZurichInnovation/internal/rules"
)

// evalOCRConfidence bands the externally measured OCR confidence: at or
// above green_min is GREEN, at or above yellow_min is YELLOW, else RED.
// A missing measurement is UNKNOWN, never a silent pass.
func evalOCRConfidence(c rules.Criterion, sig entity.Signals) entity.CriterionResult {
	res := base(c)
	if sig.OCRConfidence == nil {
		res.Flag = constants.FlagUnknown
		res.Evidence.Detail = "no OCR confidence supplied by the extraction collaborator"
		return res
	}

	v := *sig.OCRConfidence
	res.Confidence = v
	res.Evidence.Detail = fmt.Sprintf("OCR confidence %.1f%%", v)
	switch {
	case v >= c.Thresholds[rules.ThresholdGreenMin]:
		res.Flag = constants.FlagGreen
	case v >= c.Thresholds[rules.ThresholdYellowMin]:
		res.Flag = constants.FlagYellow
	default:
		res.Flag = constants.FlagRed
	}
	return res
}

// evalGrammarCount bands the externally counted grammar issues: at or below
// green_max is GREEN, at or below yellow_max is YELLOW, else RED.
func evalGrammarCount(c rules.Criterion, sig entity.Signals) entity.CriterionResult {
	res := base(c)
	if sig.GrammarIssues == nil {
		res.Flag = constants.FlagUnknown
		res.Evidence.Detail = "no grammar issue count supplied"
		return res
	}

	n := *sig.GrammarIssues
	res.Confidence = float64(n)
	res.Evidence.Detail = fmt.Sprintf("%d grammar issues", n)
	switch {
	case float64(n) <= c.Thresholds[rules.ThresholdGreenMax]:
		res.Flag = constants.FlagGreen
	case float64(n) <= c.Thresholds[rules.ThresholdYellowMax]:
		res.Flag = constants.FlagYellow
	default:
		res.Flag = constants.FlagRed
	}
	return res
}
