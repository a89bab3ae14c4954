// internal/slug/resolver.go
//
// Collision-free slug selection.
//
// Context
// -------
// Two writers can normalize identical titles to identical slugs.  The
// resolver picks the candidate to attempt: the base itself when free,
// otherwise the lowest free numeric variant inside a bounded window.  One
// round trip fetches the whole conflict set; candidates are tested against
// that in-memory set, never re-queried.  Actual uniqueness is enforced by
// the storage constraint at insert time; the write path retries once on a
// duplicate-entry error, so a racing writer that lands between our read and
// our write costs one extra resolve, not a corrupt row.
//
// Numbering
// ---------
// Variants are “base-2”, “base-3”, …  The window scans 2..max+2 where max
// is the largest suffix currently in use; the “+2” margin tolerates
// concurrent creations that committed after our query.  If the entire
// window is somehow taken, a millisecond-timestamp suffix guarantees
// termination.

package slug

import (
	"context"
	"regexp"
	"strconv"
	"time"
)

// Lister supplies every existing slug that could collide with base: the
// base itself, or base plus a “-<digits>” suffix.  Implementations issue a
// single query (slug = ? OR slug LIKE base-%) and, when excludeID is
// non-zero, skip that row so updates don't collide with themselves.
type Lister interface {
	ConflictingSlugs(ctx context.Context, base string, excludeID int64) ([]string, error)
}

// numSuffix matches a trailing "-<digits>".
var numSuffix = regexp.MustCompile(`-(\d+)$`)

// Resolve normalizes desired and returns the slug the caller should try to
// persist.  An empty normalization is replaced with a random hex token, so
// the result is never "".  The only error source is the Lister query.
func Resolve(ctx context.Context, store Lister, desired string, excludeID int64) (string, error) {
	base := Normalize(desired)
	if base == "" {
		base = RandomToken()
	}

	existing, err := store.ConflictingSlugs(ctx, base, excludeID)
	if err != nil {
		return "", err
	}
	if len(existing) == 0 {
		return base, nil
	}

	taken := make(map[string]struct{}, len(existing))
	for _, s := range existing {
		taken[s] = struct{}{}
	}
	if _, ok := taken[base]; !ok {
		return base, nil
	}

	// Largest numeric suffix currently in use.
	max := 1
	for s := range taken {
		m := numSuffix.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > max {
			max = n
		}
	}

	for n := 2; n <= max+2; n++ {
		candidate := Normalize(base + "-" + strconv.Itoa(n))
		if _, ok := taken[candidate]; !ok {
			return candidate, nil
		}
	}

	// Pathological contention: every numbered variant in the window exists.
	return Normalize(base + "-" + strconv.FormatInt(time.Now().UnixMilli(), 10)), nil
}
