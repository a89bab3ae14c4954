// internal/anonid/anonid.go
//
// Anonymous visitor identity.
//
// Context
// -------
// Like and view events are keyed by an anonymous ID rather than an account.
// The ID lives in a long-lived cookie; a visitor without one gets a fresh
// random ID minted and set on the response in the same request, so the
// event row written by that request already carries it.
//
// Workflow
// --------
//  1. Request carries a plausible anon_id cookie → reuse it unchanged.
//  2. Otherwise mint 32 random bytes, hex-encode, set the cookie, return it.
//  3. If crypto/rand fails, derive a best-effort ID from the clock so the
//     request still completes; no cookie is set in that case, making the
//     identity single-request.
//
// Notes
// -----
// • SameSite is None in secure deployments so the ID survives cross-site
//   embedding of the public API; None requires the Secure attribute, so
//   plain-HTTP development falls back to Lax.
// • The cookie is HttpOnly; client scripts never need the value.

package anonid

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// CookieName is the identity cookie key.
const CookieName = "anon_id"

// minLen rejects junk cookies (empty or truncated values) without being
// strict about provenance; any sufficiently long opaque token works as an
// event key.
const minLen = 16

const oneYear = 365 * 24 * time.Hour

// Provider mints and recalls anonymous IDs.  Secure controls the cookie's
// Secure/SameSite attributes and should track whether the site is served
// over HTTPS.
type Provider struct {
	Secure bool
}

// New returns a Provider.
func New(secure bool) *Provider {
	return &Provider{Secure: secure}
}

// Identify returns the request's anonymous ID, minting one and setting the
// cookie when absent.  It never returns "".
func (p *Provider) Identify(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil && len(c.Value) >= minLen {
		return c.Value
	}

	var buf [32]byte
	if _, err := rand.Read(buf[:]); err != nil {
		zap.L().Warn("anon id entropy unavailable", zap.Error(err))
		return fallbackID()
	}
	id := hex.EncodeToString(buf[:])

	sameSite := http.SameSiteLaxMode
	if p.Secure {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(oneYear.Seconds()),
		HttpOnly: true,
		Secure:   p.Secure,
		SameSite: sameSite,
	})
	return id
}

// fallbackID hashes the current clock with whatever entropy is left so two
// concurrent requests are unlikely to collide.  Single-request only.
func fallbackID() string {
	h := sha256.New()
	h.Write([]byte(strconv.FormatInt(time.Now().UnixNano(), 10)))
	var extra [8]byte
	_, _ = rand.Read(extra[:])
	h.Write(extra[:])
	return hex.EncodeToString(h.Sum(nil))
}
