// internal/tagquery/tagquery_test.go

package tagquery

import (
	"reflect"
	"strings"
	"testing"
)

func TestExact_WholeTokenBetweenCommas(t *testing.T) {
	c := Query{Token: "فقه"}.Exact()
	if !strings.Contains(c.Where, "CONCAT(','") || !strings.Contains(c.Where, "LIKE ?") {
		t.Fatalf("where = %q", c.Where)
	}
	if !reflect.DeepEqual(c.Args, []any{"%,فقه,%"}) {
		t.Fatalf("args = %#v", c.Args)
	}
}

func TestExact_StripsSpacesFromToken(t *testing.T) {
	// The column expression strips spaces, so the token must match it.
	c := Query{Token: "احکام نماز"}.Exact()
	if c.Args[0] != "%,احکامنماز,%" {
		t.Fatalf("args = %#v", c.Args)
	}
}

func TestExact_CommaListMatchesAnyToken(t *testing.T) {
	// A CSV query matches rows carrying any one of its tags, so each
	// token gets its own whole-entry pattern.
	c := Query{Token: "فقه,متفرقات"}.Exact()
	want := []any{"%,فقه,%", "%,متفرقات,%"}
	if !reflect.DeepEqual(c.Args, want) {
		t.Fatalf("args = %#v", c.Args)
	}
	if strings.Count(c.Where, "LIKE ?") != 2 || !strings.Contains(c.Where, " OR ") {
		t.Fatalf("where = %q", c.Where)
	}
}

func TestExact_ArabicCommaList(t *testing.T) {
	c := Query{Token: "فقه،متفرقات"}.Exact()
	want := []any{"%,فقه,%", "%,متفرقات,%"}
	if !reflect.DeepEqual(c.Args, want) {
		t.Fatalf("args = %#v", c.Args)
	}
}

func TestExact_MultiTokenGroupParenthesized(t *testing.T) {
	// The OR group must bind tighter than the appended AND filters.
	c := Query{Token: "فقه,روزه", Status: "answered"}.Exact()
	if !strings.HasPrefix(c.Where, "(") || !strings.Contains(c.Where, ") AND ") {
		t.Fatalf("where = %q", c.Where)
	}
}

func TestLoose_Substring(t *testing.T) {
	c := Query{Token: "فقهيات"}.Loose()
	if c.Where != "IFNULL(tags, '') LIKE ?" {
		t.Fatalf("where = %q", c.Where)
	}
	if c.Args[0] != "%فقهيات%" {
		t.Fatalf("args = %#v", c.Args)
	}
}

func TestFilters_AppendedToBothStrategies(t *testing.T) {
	q := Query{Token: "روزه", Status: "answered", Active: "1"}

	for _, c := range []Clause{q.Exact(), q.Loose()} {
		if !strings.Contains(c.Where, "status = ?") || !strings.Contains(c.Where, "isActive = ?") {
			t.Errorf("filters missing from %q", c.Where)
		}
		if len(c.Args) != 3 || c.Args[1] != "answered" || c.Args[2] != "1" {
			t.Errorf("args = %#v", c.Args)
		}
	}
}

func TestLoose_CommaListMatchesAnyToken(t *testing.T) {
	c := Query{Token: "فقه, روزه"}.Loose()
	want := []any{"%فقه%", "%روزه%"}
	if !reflect.DeepEqual(c.Args, want) {
		t.Fatalf("args = %#v", c.Args)
	}
}

func TestFilters_AnsweredCountsLegacyNulls(t *testing.T) {
	// Rows predating the status column have NULL there and are public.
	c := Query{Token: "روزه", Status: "answered"}.Exact()
	if !strings.Contains(c.Where, "(status = ? OR status IS NULL)") {
		t.Fatalf("where = %q", c.Where)
	}
	if c := (Query{Token: "روزه", Status: "pending"}).Exact(); !strings.Contains(c.Where, "status = ?") ||
		strings.Contains(c.Where, "IS NULL") {
		t.Fatalf("pending where = %q", c.Where)
	}
}

func TestFilters_AnyMeansAbsent(t *testing.T) {
	c := Query{Token: "روزه", Status: "any", Active: "any"}.Exact()
	if strings.Contains(c.Where, "status") || strings.Contains(c.Where, "isActive") {
		t.Fatalf("'any' filter leaked into %q", c.Where)
	}
	if len(c.Args) != 1 {
		t.Fatalf("args = %#v", c.Args)
	}
}

func TestValid(t *testing.T) {
	if (Query{Token: "  "}).Valid() {
		t.Error("blank token accepted")
	}
	// Invisible characters alone are not a token.
	if (Query{Token: "\u200c\u200f"}).Valid() {
		t.Error("invisible-only token accepted")
	}
	if !(Query{Token: "فقه"}).Valid() {
		t.Error("real token rejected")
	}
}

func TestOrder(t *testing.T) {
	if got := (Query{OrderBy: "views"}).Order(); got != "Views DESC, id DESC" {
		t.Fatalf("views order = %q", got)
	}
	if got := (Query{OrderBy: "recent"}).Order(); got != "id DESC" {
		t.Fatalf("recent order = %q", got)
	}
	// Most-viewed is the default ordering for tag pages.
	if got := (Query{}).Order(); got != "Views DESC, id DESC" {
		t.Fatalf("default order = %q", got)
	}
}
