// internal/tagquery/tagquery.go
//
// WHERE-clause construction for tag lookups over a comma-joined tags column.
//
// Context
// -------
// Tags are stored denormalized as one string column ("فقه، عبادات, روزه"),
// written by editors with a mix of Arabic and ASCII commas and stray spaces.
// The query side is a CSV too: a request may carry several tags at once
// ("فقه,متفرقات"), and a row matches when it carries ANY of them.  A lookup
// therefore splits the raw query into tokens and has two strategies:
//
//	exact: canonicalize the column inside SQL (Arabic commas to ASCII,
//	       spaces stripped, wrapped in sentinel commas) and match each
//	       token as a whole entry between commas, OR'd together.
//	loose: plain substring match per token, for when the exact pass finds
//	       nothing and a partial token like "فقهيات" should still surface
//	       rows tagged "فقه".
//
// The caller runs exact first and falls back to loose; whichever strategy
// produced the rows must also produce the total, so both clause and count
// come from the same builder.
//
// Notes
// -----
// • Only parameter values vary per request; the SQL text is fixed per token
//   count, so the builder never interpolates user input into the query.
// • Token cleanup shares internal/urtext with the slug path; the same
//   invisible characters that break slugs break tag matching.

package tagquery

import (
	"strings"

	"github.com/masailworld/masail-server/internal/urtext"
)

// canonTags rewrites the tags column into ",tag1,tag2," form: Arabic commas
// folded to ASCII, spaces removed, sentinel commas at both ends so every
// token is comma-delimited on both sides.
const canonTags = "CONCAT(',', REPLACE(REPLACE(IFNULL(tags, ''), '،', ','), ' ', ''), ',')"

// Query describes one tag lookup.  Zero-value filters mean "any".
type Query struct {
	// Token is the raw tag query as received, possibly a comma-separated
	// list (Arabic or ASCII commas); it is cleaned and split here.
	Token string
	// Status filters the status column when set ("answered" or "pending").
	Status string
	// Active filters isActive when set ("1" or "0").
	Active string
	// OrderBy is "recent" for newest-first; anything else is most-viewed
	// (the default).
	OrderBy string
}

// Clause is a ready-to-append WHERE body and its bind arguments.
type Clause struct {
	Where string
	Args  []any
}

// tokens returns the cleaned lookup tokens: invisible characters stripped,
// NFC-normalized, split on commas, empties dropped.  An empty result means
// the request carried no usable tag.
func (q Query) tokens() []string {
	return urtext.SplitTags(q.Token)
}

// Valid reports whether the query carries at least one usable token.
func (q Query) Valid() bool { return len(q.tokens()) > 0 }

// Exact returns the strict clause: every token must appear as a whole
// comma-delimited entry, any one sufficing.  Spaces are stripped from each
// token to mirror the column canonicalization.
func (q Query) Exact() Clause {
	tokens := q.tokens()
	parts := make([]string, len(tokens))
	args := make([]any, len(tokens))
	for i, tok := range tokens {
		stripped := strings.Join(strings.Fields(tok), "")
		parts[i] = canonTags + " LIKE ?"
		args[i] = "%," + stripped + ",%"
	}
	return q.withFilters(orClause(parts, args))
}

// Loose returns the fallback clause: a bare substring match against the
// raw column, per token.
func (q Query) Loose() Clause {
	tokens := q.tokens()
	parts := make([]string, len(tokens))
	args := make([]any, len(tokens))
	for i, tok := range tokens {
		parts[i] = "IFNULL(tags, '') LIKE ?"
		args[i] = "%" + tok + "%"
	}
	return q.withFilters(orClause(parts, args))
}

// orClause joins the per-token predicates with OR, parenthesized whenever
// filters could follow a multi-token group.
func orClause(parts []string, args []any) Clause {
	if len(parts) == 1 {
		return Clause{Where: parts[0], Args: args}
	}
	return Clause{Where: "(" + strings.Join(parts, " OR ") + ")", Args: args}
}

// withFilters appends the status and active predicates shared by both
// strategies.  Rows predating the status column have NULL there and count
// as answered.
func (q Query) withFilters(c Clause) Clause {
	if q.Status != "" && q.Status != "any" {
		if q.Status == "answered" {
			c.Where += " AND (status = ? OR status IS NULL)"
		} else {
			c.Where += " AND status = ?"
		}
		c.Args = append(c.Args, q.Status)
	}
	if q.Active != "" && q.Active != "any" {
		c.Where += " AND isActive = ?"
		c.Args = append(c.Args, q.Active)
	}
	return c
}

// Order returns the ORDER BY body for the query.  Most-viewed is the
// default; "recent" opts into newest-first.
func (q Query) Order() string {
	if q.OrderBy == "recent" {
		return "id DESC"
	}
	return "Views DESC, id DESC"
}
