// internal/slug/slug_test.go
//
// Unit-tests for the slug normalizer.
//
// Run: go test ./internal/slug -v

package slug

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestNormalize_Basic(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"hello world", "hello-world"},
		{"  hello   world  ", "hello-world"},
		{"a---b", "a-b"},
		{"--edge--", "edge"},
		{"نماز کے مسائل", "نماز-کے-مسائل"},
		{"روزہ ، زکات", "روزہ-،-زکات"},
		{"", ""},
		{"   \t\n ", ""},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

// Normalize output must carry no edge or doubled hyphens and stay within
// the column limit, for any input.
func TestNormalize_Properties(t *testing.T) {
	inputs := []string{
		"normal title",
		strings.Repeat("کتاب ", 200),
		strings.Repeat("x", 1000),
		"- - - -",
		"a  b\tc\nd",
		"\u200cab\u200dcd\u200e",
	}
	for _, in := range inputs {
		got := Normalize(in)
		if strings.HasPrefix(got, "-") || strings.HasSuffix(got, "-") {
			t.Errorf("Normalize(%q) has edge hyphen: %q", in, got)
		}
		if strings.Contains(got, "--") {
			t.Errorf("Normalize(%q) has doubled hyphen: %q", in, got)
		}
		if n := utf8.RuneCountInString(got); n > MaxLen {
			t.Errorf("Normalize(%q) length %d > %d", in, n, MaxLen)
		}
	}
}

func TestNormalize_TruncationTrimsDash(t *testing.T) {
	// Force the 255-rune cut to land right after a hyphen.
	in := strings.Repeat("a", MaxLen-1) + " bcdef"
	got := Normalize(in)
	if strings.HasSuffix(got, "-") {
		t.Fatalf("truncation left a trailing hyphen: %q", got)
	}
	if utf8.RuneCountInString(got) > MaxLen {
		t.Fatalf("truncation failed, got %d runes", utf8.RuneCountInString(got))
	}
}

func TestRandomToken(t *testing.T) {
	a, b := RandomToken(), RandomToken()
	if len(a) != 12 || len(b) != 12 {
		t.Fatalf("token lengths: %d, %d", len(a), len(b))
	}
	if a == b {
		t.Fatalf("two tokens identical: %s", a)
	}
	for _, r := range a {
		if !strings.ContainsRune("0123456789abcdef", r) {
			t.Fatalf("non-hex rune %q in token %s", r, a)
		}
	}
}
