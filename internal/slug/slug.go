// internal/slug/slug.go
//
// Slug normalization for Urdu/Arabic titles.
//
// Rules (Normalize)
// -----------------
//  1. Shared Unicode cleanup (NFC, zero-width/bidi/tatweel strip).
//  2. Trim surrounding whitespace.
//  3. Convert every internal whitespace run to one “-”.
//  4. Collapse consecutive “-” to a single “-”.
//  5. Trim leading / trailing “-”.
//  6. Cap at 255 runes (varchar(255) counts characters, not bytes), then
//     re-trim a trailing dash if the cut landed on one.
//
// Notes
// -----
// • No lowercasing and no ASCII folding: titles are Urdu script and must
//   survive the round trip to the address bar intact.
// • Normalize is pure and total; an all-whitespace input yields "".  The
//   resolver substitutes RandomToken() so an empty slug is never persisted.
// • Oxford commas, two spaces after periods.

package slug

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"unicode"

	"github.com/masailworld/masail-server/internal/urtext"
)

// MaxLen is the storage column limit, in runes.
const MaxLen = 255

// Normalize converts free text into a URL-safe, hyphen-separated token.
func Normalize(input string) string {
	cleaned := strings.TrimSpace(urtext.Clean(input))

	var b strings.Builder
	b.Grow(len(cleaned))

	lastWasDash := false
	for _, r := range cleaned {
		switch {
		case unicode.IsSpace(r), r == '-':
			if !lastWasDash {
				b.WriteRune('-')
				lastWasDash = true
			}
		default:
			b.WriteRune(r)
			lastWasDash = false
		}
	}

	out := strings.Trim(b.String(), "-")
	if runes := []rune(out); len(runes) > MaxLen {
		out = strings.TrimRight(string(runes[:MaxLen]), "-")
	}
	return out
}

// RandomToken returns 12 lowercase hex characters from crypto/rand, used as
// a slug base when a title normalizes to nothing.
func RandomToken() string {
	var buf [6]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// rand.Read failing means the process is in serious trouble;
		// still return something rather than an empty slug.
		return "item"
	}
	return hex.EncodeToString(buf[:])
}
