package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Fr3nn3r/ZurichInnovation/constants"
	"github.com/Fr3nn3r/ZurichInnovation/internal/entity"
	"github.com/Fr3nn3r/ZurichInnovation/internal/rules"
	"github.com/Fr3nn3r/ZurichInnovation/internal/textmatch"
)

// Unit-aware number patterns. Matching runs over folded text, so German and
// English unit words are matched without diacritics.
var (
	reYears = regexp.MustCompile(`(\d+)\s*(?:years?|jahren?)\b`)
	reDays  = regexp.MustCompile(`(\d+)\s*(?:days?|tagen?)\b`)
	rePct   = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*%`)
	// Currency-amount shapes: a currency mark next to digits, or a number
	// with thousands grouping / two decimals.
	reAmount = regexp.MustCompile(`(?:[$€£]|\b(?:eur|usd|gbp|chf))\s*[\d.,]*\d` +
		`|\b\d{1,3}(?:[.,]\d{3})+(?:[.,]\d{2})?\b` +
		`|\b\d+[.,]\d{2}\b`)
)

// firstUnitNumber returns the first qualifying number of the given unit
// pattern in the folded text, with its rune offset.
func firstUnitNumber(text string, re *regexp.Regexp) (value float64, raw string, loc int, ok bool) {
	folded := textmatch.Fold(text)
	m := re.FindStringSubmatchIndex(folded)
	if m == nil {
		return 0, "", -1, false
	}
	raw = folded[m[2]:m[3]]
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil {
		return 0, "", -1, false
	}
	return v, folded[m[0]:m[1]], len([]rune(folded[:m[0]])), true
}

// evalNumericYears: a term at or below green_max_years is GREEN, above is
// RED. No year reference at all is UNKNOWN.
func evalNumericYears(c rules.Criterion, text string) entity.CriterionResult {
	res := base(c)
	v, raw, loc, ok := firstUnitNumber(text, reYears)
	if !ok {
		res.Flag = constants.FlagUnknown
		res.Evidence.Detail = "no year reference found"
		return res
	}

	maxYears := c.Thresholds[rules.ThresholdGreenMaxYears]
	res.Confidence = v
	res.Evidence = entity.Evidence{Phrase: raw, Location: loc}
	if v <= maxYears {
		res.Flag = constants.FlagGreen
		res.Evidence.Detail = fmt.Sprintf("term of %.0f years within limit of %.0f", v, maxYears)
	} else {
		res.Flag = constants.FlagRed
		res.Evidence.Detail = fmt.Sprintf("term of %.0f years exceeds limit of %.0f", v, maxYears)
	}
	return res
}

// evalNumericDays: a payment period of at least green_min_days is GREEN.
// Shorter periods are RED; with no day reference, a configured vague term
// (yellow tier) downgrades to YELLOW and anything else is UNKNOWN.
func evalNumericDays(c rules.Criterion, text string) entity.CriterionResult {
	res := base(c)
	minDays := c.Thresholds[rules.ThresholdGreenMinDays]

	v, raw, loc, ok := firstUnitNumber(text, reDays)
	if ok {
		res.Confidence = v
		res.Evidence = entity.Evidence{Phrase: raw, Location: loc}
		if v >= minDays {
			res.Flag = constants.FlagGreen
			res.Evidence.Detail = fmt.Sprintf("payment period of %.0f days meets minimum of %.0f", v, minDays)
		} else {
			res.Flag = constants.FlagRed
			res.Evidence.Detail = fmt.Sprintf("payment period of %.0f days below minimum of %.0f", v, minDays)
		}
		return res
	}

	if vague, ok := textmatch.Best(text, c.Patterns[rules.TierYellow]); ok && vague.Score > 80 {
		res.Flag = constants.FlagYellow
		res.Confidence = vague.Score
		res.Evidence = entity.Evidence{
			Phrase:   vague.Phrase,
			Location: vague.Loc,
			Detail:   fmt.Sprintf("vague payment term %q found", vague.Phrase),
		}
		return res
	}

	res.Flag = constants.FlagUnknown
	res.Evidence.Detail = "no day-count reference found"
	return res
}

// evalNumericAmount in amount_presence mode only checks that some
// currency-amount is present: GREEN if found, RED if absent.
func evalNumericAmount(c rules.Criterion, text string) entity.CriterionResult {
	res := base(c)
	folded := textmatch.Fold(text)
	m := reAmount.FindStringIndex(folded)
	if m == nil {
		res.Flag = constants.FlagRed
		res.Evidence.Detail = "no guarantee amount found"
		return res
	}

	res.Flag = constants.FlagGreen
	res.Evidence = entity.Evidence{
		Phrase:   folded[m[0]:m[1]],
		Location: len([]rune(folded[:m[0]])),
		Detail:   fmt.Sprintf("amount %q found", folded[m[0]:m[1]]),
	}
	return res
}

// evalNumericPercentage: the first percentage at or below green_max_percent
// is GREEN, above is RED, none found is UNKNOWN.
func evalNumericPercentage(c rules.Criterion, text string) entity.CriterionResult {
	res := base(c)
	v, raw, loc, ok := firstUnitNumber(text, rePct)
	if !ok {
		res.Flag = constants.FlagUnknown
		res.Evidence.Detail = "no percentage value found"
		return res
	}

	maxPct := c.Thresholds[rules.ThresholdGreenMaxPct]
	res.Confidence = v
	res.Evidence = entity.Evidence{Phrase: raw, Location: loc}
	if v <= maxPct {
		res.Flag = constants.FlagGreen
		res.Evidence.Detail = fmt.Sprintf("%.1f%% within limit of %.1f%%", v, maxPct)
	} else {
		res.Flag = constants.FlagRed
		res.Evidence.Detail = fmt.Sprintf("%.1f%% exceeds limit of %.1f%%", v, maxPct)
	}
	return res
}
