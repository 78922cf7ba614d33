package engine

import (
	"fmt"

	"github.com/Fr3nn3r/ZurichInnovation/constants"
	"github.com/Fr3nn3r/ZurichInnovation/internal/entity"
	"github.com/Fr3nn3r/ZurichInnovation/internal/rules"
)

// evalFormat flags the declared file type against per-tier extension lists.
// Red wins over yellow wins over green; an extension on no list is UNKNOWN.
func evalFormat(c rules.Criterion, fileExt string) entity.CriterionResult {
	res := base(c)
	ext := constants.NormalizeExt(fileExt)

	for _, t := range fuzzyTiers {
		for _, listed := range c.Patterns[t.tier] {
			if constants.NormalizeExt(listed) != ext {
				continue
			}
			res.Flag = t.flag
			res.Evidence = entity.Evidence{
				Phrase:   ext,
				Location: -1,
				Detail:   fmt.Sprintf("file type %q on %s list", ext, t.tier),
			}
			return res
		}
	}

	res.Flag = constants.FlagUnknown
	res.Evidence.Detail = fmt.Sprintf("file type %q not covered by any tier", ext)
	return res
}
