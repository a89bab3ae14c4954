// internal/urtext/urtext_test.go

package urtext

import (
	"reflect"
	"testing"
)

func TestClean_StripsInvisibles(t *testing.T) {
	// ZWNJ, RLM, tatweel, and an LRE embedding mark around plain letters.
	in := "\u200c\u0641\u0642\u0647\u200f\u0640\u202a!"
	if got := Clean(in); got != "\u0641\u0642\u0647!" {
		t.Fatalf("Clean(%q) = %q", in, got)
	}
}

func TestClean_NFC(t *testing.T) {
	// e + combining acute must compose to the single-code-point form.
	if got := Clean("e\u0301"); got != "\u00e9" {
		t.Fatalf("Clean = %q", got)
	}
}

func TestFoldCommas(t *testing.T) {
	cases := []struct{ in, want string }{
		{"فقه ، عبادات", "فقه,عبادات"},
		{"  a , b ,c  ", "a,b,c"},
		{"single", "single"},
		{"", ""},
	}
	for _, c := range cases {
		if got := FoldCommas(c.in); got != c.want {
			t.Errorf("FoldCommas(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSplitTags(t *testing.T) {
	got := SplitTags("فقه ، , عبادات ،،روزه")
	want := []string{"فقه", "عبادات", "روزه"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SplitTags = %#v, want %#v", got, want)
	}
	if out := SplitTags("  ،،  "); len(out) != 0 {
		t.Fatalf("SplitTags of separators only = %#v", out)
	}
}
