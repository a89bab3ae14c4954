// components/pages/helpers_test.go

package pages

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func TestStripHTML(t *testing.T) {
	in := `<p>روزے کے <b>احکام</b></p>  <br> تفصیل`
	if got := stripHTML(in); got != "روزے کے احکام تفصیل" {
		t.Fatalf("got %q", got)
	}
}

func TestTruncate_RuneSafe(t *testing.T) {
	in := strings.Repeat("ک", 300)
	got := truncate(in, 220)
	if utf8.RuneCountInString(got) > 221 { // 220 + ellipsis
		t.Fatalf("length %d", utf8.RuneCountInString(got))
	}
	if !strings.HasSuffix(got, "…") {
		t.Fatal("missing ellipsis")
	}
	if short := truncate("abc", 220); short != "abc" {
		t.Fatalf("short input changed: %q", short)
	}
}

func TestUrduDate(t *testing.T) {
	d := time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC)
	if got := urduDate(d); got != "2 جنوری 2026" {
		t.Fatalf("got %q", got)
	}
	if got := urduDate(time.Time{}); got != "" {
		t.Fatalf("zero time rendered %q", got)
	}
}

func TestArticleJSONLD_EscapesQuotes(t *testing.T) {
	out := articleJSONLD(`ti"tle`, "desc", "https://example.com/a/1", "")
	if !strings.Contains(out, `\"`) {
		t.Fatalf("quote not escaped: %s", out)
	}
	if strings.Contains(out, "</script>") {
		t.Fatal("script closer leaked")
	}
}
