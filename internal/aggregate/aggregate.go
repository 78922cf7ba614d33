// Package aggregate folds per-criterion results into one document verdict.
package aggregate

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Fr3nn3r/ZurichInnovation/constants"
	"github.com/Fr3nn3r/ZurichInnovation/internal/entity"
)

// Build assembles the document verdict from criterion results and page
// verdicts. The overall flag is the worst effective flag across criteria,
// where an UNKNOWN criterion counts as YELLOW so unresolved checks can
// never improve a document's standing. Findings list every non-green
// criterion, worst first.
func Build(docID uuid.UUID, name string, results []entity.CriterionResult, pages []entity.ExtractionVerdict, notes []string, elapsed time.Duration) entity.DocumentVerdict {
	v := entity.DocumentVerdict{
		DocumentID: docID,
		Name:       name,
		Overall:    constants.FlagGreen,
		Criteria:   results,
		Pages:      pages,
		Notes:      notes,
		Elapsed:    elapsed,
	}

	for _, r := range results {
		eff := r.Flag.Effective()
		if eff.WorseThan(v.Overall) {
			v.Overall = eff
		}
		if r.Flag == constants.FlagUnknown {
			v.Unknown = append(v.Unknown, r.CriterionID)
		}
		if r.Flag == constants.FlagGreen {
			continue
		}
		v.Findings = append(v.Findings, entity.Finding{
			CriterionID: r.CriterionID,
			Name:        r.Name,
			Severity:    r.Severity,
			Flag:        r.Flag,
			Rank:        r.Severity.Weight() * r.Flag.Weight(),
		})
	}

	sort.SliceStable(v.Findings, func(i, j int) bool {
		a, b := v.Findings[i], v.Findings[j]
		if a.Rank != b.Rank {
			return a.Rank > b.Rank
		}
		if a.Severity.Weight() != b.Severity.Weight() {
			return a.Severity.Weight() > b.Severity.Weight()
		}
		return a.CriterionID < b.CriterionID
	})
	sort.Ints(v.Unknown)
	return v
}
