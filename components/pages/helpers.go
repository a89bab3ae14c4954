// components/pages/helpers.go
//
// Text helpers for the server-rendered pages: HTML stripping for meta
// descriptions, rune-safe truncation, and Urdu month labels for dates.

package pages

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	tagPattern   = regexp.MustCompile(`<[^>]*>`)
	spacePattern = regexp.MustCompile(`\s+`)
)

// stripHTML removes markup and collapses whitespace, yielding plain text
// safe for a meta description.
func stripHTML(s string) string {
	out := tagPattern.ReplaceAllString(s, " ")
	out = spacePattern.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}

// truncate cuts s at the rune boundary nearest max and appends an ellipsis
// when something was dropped.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return strings.TrimSpace(string(runes[:max])) + "…"
}

// descriptionOf builds the 220-character description used for meta tags.
func descriptionOf(html string) string {
	return truncate(stripHTML(html), 220)
}

// urduMonths maps time.Month to its Urdu label.
var urduMonths = [...]string{
	time.January:   "جنوری",
	time.February:  "فروری",
	time.March:     "مارچ",
	time.April:     "اپریل",
	time.May:       "مئی",
	time.June:      "جون",
	time.July:      "جولائی",
	time.August:    "اگست",
	time.September: "ستمبر",
	time.October:   "اکتوبر",
	time.November:  "نومبر",
	time.December:  "دسمبر",
}

// urduDate renders t as "2 جنوری 2026".
func urduDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return strings.Join([]string{
		strconv.Itoa(t.Day()),
		urduMonths[t.Month()],
		strconv.Itoa(t.Year()),
	}, " ")
}
