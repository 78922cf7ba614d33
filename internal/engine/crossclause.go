package engine

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/Fr3nn3r/ZurichInnovation/constants"
	"github.com/Fr3nn3r/ZurichInnovation/internal/entity"
	"github.com/Fr3nn3r/ZurichInnovation/internal/rules"
	"github.com/Fr3nn3r/ZurichInnovation/internal/textmatch"
)

// Value shapes that must agree across clauses of the same document.
var (
	reClauseAmount   = regexp.MustCompile(`\b\d{1,3}(?:[.,]\d{3})+(?:[.,]\d{2})?\b|\b\d+[.,]\d{2}\b`)
	reClauseCurrency = regexp.MustCompile(`\b[A-Z]{3}\b|[$€£¥]`)
	reClauseContract = regexp.MustCompile(`\bPR\+\d{9}\b`)
)

var knownCurrencies = map[string]string{
	"EUR": "EUR", "USD": "USD", "GBP": "GBP", "CHF": "CHF", "JPY": "JPY",
	"$": "USD", "€": "EUR", "£": "GBP", "¥": "JPY",
}

// evalCrossClause checks that amounts, currencies, and contract references
// agree wherever they recur across clauses, and that no contradiction
// wording appears. Documents stating no comparable values twice are
// UNKNOWN, not GREEN.
func evalCrossClause(c rules.Criterion, text string, clauses []string) entity.CriterionResult {
	res := base(c)

	if m, ok := textmatch.Best(text, c.Patterns[rules.TierRed]); ok && m.Score >= 85 {
		res.Flag = constants.FlagRed
		res.Confidence = m.Score
		res.Evidence = entity.Evidence{
			Phrase:   m.Phrase,
			Location: m.Loc,
			Detail:   fmt.Sprintf("contradiction wording %q found", m.Phrase),
		}
		return res
	}

	fields := []struct {
		name   string
		values map[string][]int
	}{
		{"amount", collect(clauses, reClauseAmount, normalizeAmount)},
		{"currency", collect(clauses, reClauseCurrency, normalizeCurrency)},
		{"contract number", collect(clauses, reClauseContract, strings.ToUpper)},
	}

	sawRepeat := false
	for _, f := range fields {
		if len(f.values) > 1 {
			res.Flag = constants.FlagRed
			res.Evidence = entity.Evidence{
				Phrase:   strings.Join(sortedKeys(f.values), " / "),
				Location: -1,
				Detail:   fmt.Sprintf("conflicting %s values across clauses", f.name),
			}
			return res
		}
		for _, idxs := range f.values {
			if len(idxs) > 1 {
				sawRepeat = true
			}
		}
	}

	if !sawRepeat {
		res.Flag = constants.FlagUnknown
		res.Evidence.Detail = "no value stated in more than one clause"
		return res
	}

	res.Flag = constants.FlagGreen
	res.Evidence.Detail = "repeated values agree across clauses"
	return res
}

// collect maps each normalized value to the clause indices it appears in.
func collect(clauses []string, re *regexp.Regexp, normalize func(string) string) map[string][]int {
	out := make(map[string][]int)
	for i, clause := range clauses {
		seen := make(map[string]bool)
		for _, raw := range re.FindAllString(clause, -1) {
			v := normalize(raw)
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			out[v] = append(out[v], i)
		}
	}
	return out
}

// normalizeAmount strips grouping separators so 100.000,00 and 100,000.00
// compare equal.
func normalizeAmount(raw string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)
	// Trailing cents of zero collapse with the bare amount.
	if strings.HasSuffix(digits, "00") && len(digits) > 2 {
		if strings.HasSuffix(raw, ",00") || strings.HasSuffix(raw, ".00") {
			digits = digits[:len(digits)-2]
		}
	}
	return digits
}

func normalizeCurrency(raw string) string {
	return knownCurrencies[strings.ToUpper(raw)]
}

func sortedKeys(m map[string][]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
