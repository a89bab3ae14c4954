// cmd/web/main.go
//
// Masail content server – HTTP entry point.
//
// Boot sequence
// -------------
//
//  1. Load env vars (jail-wide file → .env fallback).
//
//  2. Start daily rotating logger (tees to console when running in a TTY).
//
//  3. Load the typed config (koanf layers); resolve `vault:` references.
//
//  4. Open the MySQL pool and fail fast on a bad DSN.
//
//  5. Optionally open the GeoLite2 database for request enrichment.
//
//  6. Build the chi router: hardening and enrichment middleware, the
//     component routers mounted explicitly, and /metrics.
//
//  7. Serve with hardened timeouts; SIGINT/SIGTERM drain in-flight
//     requests before exit.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/masailworld/masail-server/components/article"
	"github.com/masailworld/masail-server/components/book"
	"github.com/masailworld/masail-server/components/fatwa"
	"github.com/masailworld/masail-server/components/pages"
	"github.com/masailworld/masail-server/internal/anonid"
	"github.com/masailworld/masail-server/internal/config"
	"github.com/masailworld/masail-server/internal/counter"
	"github.com/masailworld/masail-server/internal/database"
	"github.com/masailworld/masail-server/internal/logger"
	"github.com/masailworld/masail-server/internal/middleware"
	"github.com/masailworld/masail-server/internal/requestinfo"
	"github.com/masailworld/masail-server/internal/server"
	"github.com/masailworld/masail-server/internal/vault"
)

const serverEnvPath = "/usr/local/etc/masail-server/global.env"

// loadEnv prefers the jail-wide env file; on dev it falls back to .env.
func loadEnv() {
	if _, err := os.Stat(serverEnvPath); err == nil {
		_ = godotenv.Load(serverEnvPath)
		return
	}
	_ = godotenv.Load()
}

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func init() { loadEnv() }

func main() {
	rootDir, _ := os.Getwd()
	logOut, err := logger.New(rootDir, runningInTTY())
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	//
	// ── 1.  Config + secrets ────────────────────────────────────────────
	//
	cfg, err := config.Load()
	if err != nil {
		logOut.Fatalf("load config: %v", err)
	}

	password := cfg.Database.Password
	if strings.HasPrefix(password, "vault:") {
		vc, err := vault.New(ctx, logOut.Infof)
		if err != nil {
			logOut.Fatalf("vault client: %v", err)
		}
		if password, err = vc.ResolveRef(ctx, password); err != nil {
			logOut.Fatalf("resolve db password: %v", err)
		}
	}

	//
	// ── 2.  Database ────────────────────────────────────────────────────
	//
	// The DSN template carries one %s for the password; clientFoundRows
	// keeps no-change updates distinguishable from missing rows.
	dsn := strings.Replace(cfg.Database.DSN, "%s", password, 1)
	logOut.Infow("connecting to DB")
	db, err := database.Open(dsn)
	if err != nil {
		logOut.Fatalf("connect DB: %v", err)
	}
	defer db.Close()
	logOut.Infow("DB online")

	//
	// ── 3.  Optional geolocation ────────────────────────────────────────
	//
	if cfg.Geo.MMDBPath != "" {
		if err := requestinfo.InitGeo(cfg.Geo.MMDBPath); err != nil {
			logOut.Warnw("geo database unavailable", "path", cfg.Geo.MMDBPath, "err", err)
		}
	}

	//
	// ── 4.  Components ──────────────────────────────────────────────────
	//
	anon := anonid.New(cfg.HTTP.ForceHTTPS)

	articleRepo := article.NewRepo(db)
	fatwaRepo := fatwa.NewRepo(db)
	bookRepo := book.NewRepo(db)

	articleComp := article.New(articleRepo, counter.New(db, article.Spec()), anon)
	fatwaComp := fatwa.New(fatwaRepo)
	bookComp := book.New(bookRepo)
	pagesComp := pages.New(articleRepo, fatwaRepo, bookRepo, cfg.Site.Name, cfg.Site.Origin)

	//
	// ── 5.  Router ──────────────────────────────────────────────────────
	//
	r := chi.NewRouter()
	r.Use(middleware.Security)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true, // the anon_id cookie rides on API calls
		MaxAge:           300,
	}))
	r.Use(requestinfo.Enrich)

	r.Mount("/api/article", articleComp.Routes())
	r.Mount("/api/fatwa", fatwaComp.Routes())
	r.Mount("/api/book", bookComp.Routes())
	r.Mount("/", pagesComp.Routes())

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if err := db.Ping(); err != nil {
			http.Error(w, "db unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	handler := middleware.ForceHTTPS(cfg.HTTP.ForceHTTPS, r)

	//
	// ── 6.  Serve + graceful shutdown ───────────────────────────────────
	//
	srv := server.New(cfg.HTTP.ListenAddr, handler)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logOut.Infow("listening", "addr", cfg.HTTP.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logOut.Fatalf("server: %v", err)
	}
	logOut.Infow("shutdown complete")
}
