// Package textmatch provides case- and diacritic-insensitive approximate
// string matching over noisy OCR output, scored 0-100.
package textmatch

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldChain = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases s and strips diacritics, so "Bürgschaft" matches
// "burgschaft" and OCR-mangled umlauts still score high.
func Fold(s string) string {
	folded, _, err := transform.String(foldChain, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return folded
}
