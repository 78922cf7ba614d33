package engine

import (
	"fmt"

	"github.com/Fr3nn3r/ZurichInnovation/constants"
	"github.com/Fr3nn3r/ZurichInnovation/internal/entity"
	"github.com/Fr3nn3r/ZurichInnovation/internal/rules"
	"github.com/Fr3nn3r/ZurichInnovation/internal/textmatch"
)

// evalPresenceInverse flags RED when any listed forbidden term appears
// verbatim (case-insensitively) in the text, GREEN otherwise. There is no
// yellow tier: a forbidden term is either present or it is not.
func evalPresenceInverse(c rules.Criterion, text string) entity.CriterionResult {
	res := base(c)

	for _, phrase := range c.Patterns[rules.TierRed] {
		if loc := textmatch.IndexFold(text, phrase); loc >= 0 {
			res.Flag = constants.FlagRed
			res.Evidence = entity.Evidence{
				Phrase:   phrase,
				Location: loc,
				Detail:   fmt.Sprintf("forbidden term %q found", phrase),
			}
			return res
		}
	}

	res.Flag = constants.FlagGreen
	res.Evidence.Detail = "no forbidden terms found"
	return res
}
