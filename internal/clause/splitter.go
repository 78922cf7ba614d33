// Package clause breaks guarantee text into distinct clauses so that
// cross-clause checks can compare disjoint regions of a document.
package clause

import (
	"regexp"
	"strings"
)

const (
	maxWords = 150 // re-chunk anything longer sentence by sentence
	minWords = 20  // drop fragments below this
)

// Marker phrases that typically open a new clause in guarantee documents.
var markRe = regexp.MustCompile(`(?i)(\n\s*\d+\.|§\s*\d+` +
	`|wir verpflichten uns|wir verzichten|auf die einreden` +
	`|diese bürgschaft ist unbefristet|diese bürgschaft erlischt` +
	`|gerichtsstand ist|unterliegt dem|sollte eine bestimmung` +
	`|we undertake to|we waive|this guarantee (?:shall|expires))`)

var (
	hardRe  = regexp.MustCompile(`\n{2,}`)
	spaceRe = regexp.MustCompile(`[ \t]+`)
	sentRe  = regexp.MustCompile(`[.!?]\s+`)
)

const delim = "¶"

// Split breaks text into clauses: marker and hard-break splitting first,
// then oversize chunks are regrouped sentence by sentence, and undersized
// fragments are dropped.
func Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	normalized := spaceRe.ReplaceAllString(strings.ReplaceAll(text, "\r\n", "\n"), " ")
	normalized = markRe.ReplaceAllString(strings.TrimSpace(normalized), delim+"$1")
	normalized = hardRe.ReplaceAllString(normalized, delim)

	var out []string
	for _, piece := range strings.Split(normalized, delim) {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		for _, chunk := range splitOversize(piece) {
			if len(strings.Fields(chunk)) >= minWords {
				out = append(out, chunk)
			}
		}
	}
	return out
}

// splitOversize regroups an oversized block into sentence runs that each
// stay under the word cap.
func splitOversize(block string) []string {
	if len(strings.Fields(block)) <= maxWords {
		return []string{block}
	}

	var out []string
	var buf string
	for _, s := range splitSentences(block) {
		candidate := s
		if buf != "" {
			candidate = buf + " " + s
		}
		if len(strings.Fields(candidate)) > maxWords {
			if buf != "" {
				out = append(out, strings.TrimSpace(buf))
			}
			buf = s
		} else {
			buf = candidate
		}
	}
	if buf != "" {
		out = append(out, strings.TrimSpace(buf))
	}
	return out
}

// splitSentences cuts after sentence-final punctuation followed by
// whitespace, keeping the punctuation with the sentence.
func splitSentences(s string) []string {
	var sentences []string
	last := 0
	for _, m := range sentRe.FindAllStringIndex(s, -1) {
		// m[0] is the punctuation rune; cut just after it.
		end := m[0] + 1
		if sent := strings.TrimSpace(s[last:end]); sent != "" {
			sentences = append(sentences, sent)
		}
		last = m[1]
	}
	if sent := strings.TrimSpace(s[last:]); sent != "" {
		sentences = append(sentences, sent)
	}
	return sentences
}
