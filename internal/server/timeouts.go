// internal/server/timeouts.go
//
// Hardened *http.Server construction for cmd/web.
//
// Timeouts are sized for the blob endpoints: book PDFs of up to 64 MB
// stream out of MySQL to slow mobile clients, and cover/PDF uploads come
// in the other direction.  Header reads stay tight so slow-loris clients
// are shed before they hold a connection.
//

package server

import (
	"net/http"
	"time"
)

// New constructs an *http.Server with the hardened defaults.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       2 * time.Minute, // PDF uploads
		WriteTimeout:      2 * time.Minute, // PDF downloads
		IdleTimeout:       60 * time.Second,
	}
}
