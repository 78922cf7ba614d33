package textmatch

import (
	"strings"

	"github.com/agext/levenshtein"
)

var params = levenshtein.NewParams()

// Match is the outcome of scoring one phrase against a text.
type Match struct {
	Phrase string  // the indicator phrase as configured
	Score  float64 // 0-100
	Loc    int     // rune offset of the best window in the folded text, -1 when unmatched
}

// PartialRatio scores how well needle matches the best-aligned window of
// haystack, 0-100. Both sides are folded first. A needle appearing verbatim
// anywhere in haystack scores 100.
func PartialRatio(needle, haystack string) (float64, int) {
	n := []rune(Fold(needle))
	h := []rune(Fold(haystack))
	if len(n) == 0 || len(h) == 0 {
		return 0, -1
	}

	// Verbatim containment short-circuits the window scan.
	if idx := strings.Index(string(h), string(n)); idx >= 0 {
		loc := len([]rune(string(h)[:idx]))
		return 100, loc
	}

	if len(h) <= len(n) {
		return 100 * levenshtein.Similarity(string(n), string(h), params), 0
	}

	best := 0.0
	bestLoc := 0
	window := len(n)
	for i := 0; i+window <= len(h); i++ {
		s := levenshtein.Similarity(string(n), string(h[i:i+window]), params)
		if s > best {
			best = s
			bestLoc = i
		}
		if best == 1 {
			break
		}
	}
	return 100 * best, bestLoc
}

// Best returns the highest-scoring phrase from the candidate list. The scan
// is deterministic: the first phrase in configured order wins ties.
func Best(text string, phrases []string) (Match, bool) {
	best := Match{Loc: -1}
	found := false
	for _, p := range phrases {
		score, loc := PartialRatio(p, text)
		if !found || score > best.Score {
			best = Match{Phrase: p, Score: score, Loc: loc}
			found = true
		}
	}
	return best, found
}

// IndexFold reports the rune offset of phrase in text, both folded,
// or -1 when absent. Used for verbatim, case-insensitive containment.
func IndexFold(text, phrase string) int {
	ft := Fold(text)
	fp := Fold(phrase)
	if fp == "" {
		return -1
	}
	idx := strings.Index(ft, fp)
	if idx < 0 {
		return -1
	}
	return len([]rune(ft[:idx]))
}
