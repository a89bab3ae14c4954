// internal/urtext/urtext.go
//
// Unicode cleanup for Urdu and Arabic free text.
//
// Context
// -------
// Titles and tags arrive from copy-pasted sources (Word, WhatsApp, legacy
// CMS exports) and carry invisible characters that break string matching:
// zero-width joiners, bidi control marks, and the Arabic tatweel used for
// visual stretching.  Both the slug normalizer and the tag lookup need the
// same canonical form, so the cleanup lives here and nowhere else.
//
// Clean() is the shared primitive: NFC normalization plus removal of the
// invisible characters.  FoldCommas() additionally converts the Arabic
// comma to the ASCII one and tightens whitespace around separators, which
// is only wanted when a field is treated as a comma-joined list.
//
// Notes
// -----
// • No transliteration, ever: slugs and tags stay Urdu/Arabic script.
// • Transformer chains are built per call; x/text transformers carry
//   internal buffers and must not be shared across goroutines.
// • Oxford commas, two spaces after periods.
package urtext

import (
	"regexp"
	"strings"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Invisible formatting characters, written as escapes so they stay visible
// in source.  ZWNJ/ZWJ, LRM/RLM, Arabic letter mark, and tatweel.
const (
	arabicComma = '\u060c'
	alm         = '\u061c'
	tatweel     = '\u0640'
	zwnj        = '\u200c'
	zwj         = '\u200d'
	lrm         = '\u200e'
	rlm         = '\u200f'
)

// commaSpace tightens "  ,  " down to a single ASCII comma.
var commaSpace = regexp.MustCompile(`\s*,\s*`)

// isInvisible reports whether r is one of the stripped formatting
// characters, including the LRE..RLO embedding range U+202A–U+202E.
func isInvisible(r rune) bool {
	switch r {
	case zwnj, zwj, lrm, rlm, alm, tatweel:
		return true
	}
	return r >= '\u202a' && r <= '\u202e'
}

// Clean returns s in NFC form with invisible formatting characters removed.
// It never fails; on a malformed input the original string is returned.
func Clean(s string) string {
	t := transform.Chain(norm.NFC, runes.Remove(runes.Predicate(isInvisible)))
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// FoldCommas cleans s, converts Arabic commas to ASCII ones, collapses
// whitespace around each comma, and trims the ends.  The result is suitable
// for splitting on "," into tag tokens.
func FoldCommas(s string) string {
	out := Clean(s)
	out = strings.ReplaceAll(out, string(arabicComma), ",")
	out = commaSpace.ReplaceAllString(out, ",")
	return strings.TrimSpace(out)
}

// SplitTags folds s and splits it into non-empty tag tokens.
func SplitTags(s string) []string {
	parts := strings.Split(FoldCommas(s), ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
