package engine

import (
	"fmt"

	"github.com/Fr3nn3r/ZurichInnovation/constants"
	"github.com/Fr3nn3r/ZurichInnovation/internal/entity"
	"github.com/Fr3nn3r/ZurichInnovation/internal/rules"
	"github.com/Fr3nn3r/ZurichInnovation/internal/textmatch"
)

// fuzzyTiers in precedence order: when several tiers fire, the most
// conservative wins.
var fuzzyTiers = []struct {
	tier string
	flag constants.Flag
}{
	{rules.TierRed, constants.FlagRed},
	{rules.TierYellow, constants.FlagYellow},
	{rules.TierGreen, constants.FlagGreen},
}

// evalFuzzy scores each color tier's best approximate match against the
// document text. A tier fires when its best score reaches the configured
// threshold; no tier firing is UNKNOWN, not GREEN.
func (e *Engine) evalFuzzy(c rules.Criterion, text string) entity.CriterionResult {
	res := base(c)

	// Score every tier first so the calibration log sees all of them, then
	// apply precedence.
	matches := make(map[string]textmatch.Match, len(fuzzyTiers))
	for _, t := range fuzzyTiers {
		m, ok := textmatch.Best(text, c.Patterns[t.tier])
		if !ok {
			continue
		}
		matches[t.tier] = m
		if e.scores != nil {
			e.scores.Record(c.ID, t.tier, m.Score)
		}
	}

	for _, t := range fuzzyTiers {
		m, ok := matches[t.tier]
		if !ok || m.Score < c.Thresholds[t.tier] {
			continue
		}
		res.Flag = t.flag
		res.Confidence = m.Score
		res.Evidence = entity.Evidence{
			Phrase:   m.Phrase,
			Location: m.Loc,
			Detail:   fmt.Sprintf("best %s match %q scored %.1f", t.tier, m.Phrase, m.Score),
		}
		return res
	}

	res.Flag = constants.FlagUnknown
	res.Evidence.Detail = "no indicator phrase reached its tier threshold"
	return res
}
