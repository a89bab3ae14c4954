// internal/config/model.go
//
// Typed configuration model for the content server.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                          – dotenv values,
//   • `conf/global.yaml`                       – primary static file,
//   • `MASAIL_`-prefixed environment overrides – highest precedence.
//
// Any value whose string begins with the prefix `vault:` is resolved
// through the Vault client before use, so secrets stay out of flat files
// and git history.
//
// Validation happens immediately after unmarshal; the app fails fast if
// required fields are missing.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`—Koanf ignores `yaml` tags
//     unless configured otherwise.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Oxford commas, two spaces after periods.

package config

//
// HTTP section
//

// HTTP holds web-server tunables.  ForceHTTPS doubles as the "production"
// signal: it switches on the redirect middleware and the Secure cookie
// attributes.
type HTTP struct {
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`
	ForceHTTPS bool   `koanf:"force_https"`
}

//
// Database section
//

// Database holds the DSN template and its secret.
//
// The template (`DSN`) is kept in YAML so operators can tweak host, port,
// or flags without touching Vault.  The secret portion (`Password`) may be
// a literal or a `vault:mount/path#field` reference resolved at boot.
type Database struct {
	DSN      string `koanf:"dsn"      validate:"required"`
	Password string `koanf:"password" validate:"required"`
}

//
// Site section
//

// Site identifies the public origin, used for canonical URLs, Open Graph
// tags, and CORS.
type Site struct {
	Name   string `koanf:"name"   validate:"required"`
	Origin string `koanf:"origin" validate:"required,url"`
}

//
// CORS section
//

// CORS lists the browser origins allowed to call the JSON API with
// credentials (the anon_id cookie).
type CORS struct {
	AllowedOrigins []string `koanf:"allowed_origins"`
}

//
// Geo section
//

// Geo points at an optional MaxMind database for request enrichment.  An
// empty path disables the lookup.
type Geo struct {
	MMDBPath string `koanf:"mmdb_path"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime—never set in YAML or env.  The loader
// discovers `Root` (repo root or MASAIL_ROOT override) so later code can
// build absolute file paths.
type Paths struct {
	Root string // MASAIL_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Database Database `koanf:"database"`
	Site     Site     `koanf:"site"`
	CORS     CORS     `koanf:"cors"`
	Geo      Geo      `koanf:"geo"`
	Paths    Paths    `koanf:"-"` // not loaded from config files
}
