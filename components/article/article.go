// components/article/article.go
//
// Article component – JSON API for articles and their engagement counters.
//
/*
Routes (mounted at /api/article)
--------------------------------
  POST   /              create (slug resolved, one retry on a slug race)
  GET    /              paged list, ?all=1 includes retired rows
  GET    /{id}          detail by ID (dashboard, any state)
  GET    /slug/{slug}   detail by slug (public, active only)
  PATCH  /{id}          partial update; empty body is a 400
  DELETE /{id}          soft delete
  GET    /{id}/cover    cover image blob
  PUT    /{id}/cover    replace cover image
  POST   /{id}/view     count a view (per visitor per UTC day)
  POST   /{id}/increment-view  legacy unconditional bump

  POST   /{id}/like     like (idempotent)
  DELETE /{id}/like     unlike (idempotent)
  GET    /{id}/like     current visitor's like status (alias: /like/me)

PUT /{id} is registered next to PATCH for older dashboard builds.

Slug race
---------
Create and update resolve the slug against the current table, then write.
If the unique key still fires (another writer landed between resolve and
write), the slug is resolved once more from the value that just lost and
the write retried.  A second loss surfaces as 409.
*/
package article

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/masailworld/masail-server/internal/anonid"
	"github.com/masailworld/masail-server/internal/counter"
	"github.com/masailworld/masail-server/internal/database"
	"github.com/masailworld/masail-server/internal/metrics"
	"github.com/masailworld/masail-server/internal/requestinfo"
	"github.com/masailworld/masail-server/internal/slug"
	"github.com/masailworld/masail-server/internal/web"
)

// maxCoverBytes caps cover uploads at 8 MB.
const maxCoverBytes = 8 << 20

var validate = validator.New()

// Comp wires the article routes to their storage and counter engines.
type Comp struct {
	repo   *Repo
	engine *counter.Engine
	anon   *anonid.Provider
}

// New builds the component.  The counter engine must be built with the
// article Spec (see cmd/web).
func New(repo *Repo, engine *counter.Engine, anon *anonid.Provider) *Comp {
	return &Comp{repo: repo, engine: engine, anon: anon}
}

// Spec is the counter wiring for articles.
func Spec() counter.Spec {
	return counter.Spec{
		EntityTable:  "Article",
		IDColumn:     "id",
		ActiveColumn: "isActive",
		LikesColumn:  "Likes",
		ViewsColumn:  "Views",
		LikesTable:   "article_likes",
		ViewsTable:   "article_views",
		FKColumn:     "article_id",
	}
}

func (c *Comp) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", c.create)
	r.Get("/", c.list)
	r.Get("/{id}", c.get)
	r.Get("/slug/{slug}", c.getBySlug)
	r.Patch("/{id}", c.update)
	r.Put("/{id}", c.update)
	r.Delete("/{id}", c.remove)

	r.Get("/{id}/cover", c.cover)
	r.Put("/{id}/cover", c.setCover)

	r.Post("/{id}/view", c.view)
	r.Post("/{id}/increment-view", c.incrementView)
	r.Post("/{id}/like", c.like)
	r.Delete("/{id}/like", c.unlike)
	r.Get("/{id}/like", c.likeStatus)
	r.Get("/{id}/like/me", c.likeStatus)

	return r
}

/*──────────────────────────── CRUD ─────────────────────────────────────────*/

func (c *Comp) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Fail(w, r, web.NewValidationError("invalid JSON body"))
		return
	}
	if err := validate.Struct(req); err != nil {
		web.Fail(w, r, web.NewValidationError("Title is required"))
		return
	}

	seed := req.Slug
	if seed == "" {
		seed = req.Title
	}

	ctx := r.Context()
	a := &Article{
		Title:  req.Title,
		Tags:   req.Tags,
		SEO:    req.SEO,
		Writer: req.Writer,
		Text:   req.Text,
	}

	resolved, err := slug.Resolve(ctx, c.repo, seed, 0)
	if err != nil {
		web.Fail(w, r, err)
		return
	}
	a.Slug = resolved

	id, err := c.repo.Insert(ctx, a)
	if database.IsDuplicateEntry(err) {
		// Lost the race; resolve once more from the slug that just lost.
		metrics.SlugRetryTotal.Inc()
		if a.Slug, err = slug.Resolve(ctx, c.repo, a.Slug, 0); err != nil {
			web.Fail(w, r, err)
			return
		}
		id, err = c.repo.Insert(ctx, a)
		if database.IsDuplicateEntry(err) {
			web.Fail(w, r, web.NewConflictError("slug conflict, please retry"))
			return
		}
	}
	if err != nil {
		web.Fail(w, r, err)
		return
	}

	metrics.ContentCreatedTotal.WithLabelValues("article").Inc()
	created, err := c.repo.GetByID(ctx, id)
	if err != nil {
		web.Fail(w, r, err)
		return
	}
	web.Created(w, created)
}

func (c *Comp) list(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r, 50, 200)
	activeOnly := r.URL.Query().Get("all") != "1"

	rows, total, err := c.repo.List(r.Context(), limit, offset, activeOnly)
	if err != nil {
		web.Fail(w, r, err)
		return
	}
	web.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    rows,
		"total":   total,
		"count":   len(rows),
	})
}

func (c *Comp) get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		web.Fail(w, r, err)
		return
	}
	a, err := c.repo.GetByID(r.Context(), id)
	if err != nil {
		web.Fail(w, r, err)
		return
	}
	web.OK(w, a)
}

func (c *Comp) getBySlug(w http.ResponseWriter, r *http.Request) {
	a, err := c.repo.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		web.Fail(w, r, err)
		return
	}
	web.OK(w, a)
}

func (c *Comp) update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		web.Fail(w, r, err)
		return
	}
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Fail(w, r, web.NewValidationError("invalid JSON body"))
		return
	}
	if req.empty() {
		web.Fail(w, r, web.NewValidationError("no fields to update"))
		return
	}

	ctx := r.Context()

	// A new slug seed comes from an explicit slug, else a new title.
	seed := ""
	if req.Slug != nil {
		seed = *req.Slug
	} else if req.Title != nil {
		seed = *req.Title
	}
	newSlug := ""
	if seed != "" {
		if newSlug, err = slug.Resolve(ctx, c.repo, seed, id); err != nil {
			web.Fail(w, r, err)
			return
		}
	}

	err = c.repo.Update(ctx, id, req, newSlug)
	if database.IsDuplicateEntry(err) && newSlug != "" {
		metrics.SlugRetryTotal.Inc()
		if newSlug, err = slug.Resolve(ctx, c.repo, newSlug, id); err != nil {
			web.Fail(w, r, err)
			return
		}
		err = c.repo.Update(ctx, id, req, newSlug)
		if database.IsDuplicateEntry(err) {
			web.Fail(w, r, web.NewConflictError("slug conflict, please retry"))
			return
		}
	}
	if err != nil {
		web.Fail(w, r, err)
		return
	}

	updated, err := c.repo.GetByID(ctx, id)
	if err != nil {
		web.Fail(w, r, err)
		return
	}
	web.OK(w, updated)
}

func (c *Comp) remove(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		web.Fail(w, r, err)
		return
	}
	if err := c.repo.SoftDelete(r.Context(), id); err != nil {
		web.Fail(w, r, err)
		return
	}
	web.OK(w, map[string]any{"id": id, "isActive": false})
}

/*──────────────────────────── cover image ──────────────────────────────────*/

func (c *Comp) cover(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		web.Fail(w, r, err)
		return
	}
	img, err := c.repo.Cover(r.Context(), id)
	if err != nil {
		web.Fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", http.DetectContentType(img))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(img)
}

func (c *Comp) setCover(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		web.Fail(w, r, err)
		return
	}
	img, err := io.ReadAll(io.LimitReader(r.Body, maxCoverBytes+1))
	if err != nil {
		web.Fail(w, r, err)
		return
	}
	if len(img) == 0 {
		web.Fail(w, r, web.NewValidationError("empty image body"))
		return
	}
	if len(img) > maxCoverBytes {
		web.Fail(w, r, web.NewValidationError("image exceeds 8 MB"))
		return
	}
	if err := c.repo.SetCover(r.Context(), id, img); err != nil {
		web.Fail(w, r, err)
		return
	}
	web.OK(w, map[string]any{"id": id, "bytes": len(img)})
}

/*──────────────────────────── engagement ───────────────────────────────────*/

func (c *Comp) view(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		web.Fail(w, r, err)
		return
	}
	ctx := r.Context()

	// Crawlers read totals but never write events.
	if requestinfo.IsBot(ctx) {
		totals, err := c.engine.Totals(ctx, id)
		if err != nil {
			web.Fail(w, r, err)
			return
		}
		web.OK(w, counter.ViewResult{Counted: false, Views: totals.Views})
		return
	}

	res, err := c.engine.RecordView(ctx, id, c.anon.Identify(w, r))
	if err != nil {
		web.Fail(w, r, err)
		return
	}
	if res.Counted {
		metrics.ViewsCountedTotal.WithLabelValues("article").Inc()
	}
	web.OK(w, res)
}

// incrementView is the legacy unconditional bump; no event row, no
// per-day dedup.  Kept for clients that predate the view endpoint.
func (c *Comp) incrementView(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		web.Fail(w, r, err)
		return
	}
	views, err := c.repo.IncrementViews(r.Context(), id)
	if err != nil {
		web.Fail(w, r, err)
		return
	}
	web.OK(w, map[string]any{"id": id, "Views": views})
}

func (c *Comp) like(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		web.Fail(w, r, err)
		return
	}
	likes, err := c.engine.Like(r.Context(), id, c.anon.Identify(w, r))
	if err != nil {
		web.Fail(w, r, err)
		return
	}
	metrics.LikeEventsTotal.WithLabelValues("like").Inc()
	web.OK(w, map[string]any{"likes": likes, "liked": true})
}

func (c *Comp) unlike(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		web.Fail(w, r, err)
		return
	}
	likes, err := c.engine.Unlike(r.Context(), id, c.anon.Identify(w, r))
	if err != nil {
		web.Fail(w, r, err)
		return
	}
	metrics.LikeEventsTotal.WithLabelValues("unlike").Inc()
	web.OK(w, map[string]any{"likes": likes, "liked": false})
}

func (c *Comp) likeStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		web.Fail(w, r, err)
		return
	}
	liked, err := c.engine.Liked(r.Context(), id, c.anon.Identify(w, r))
	if err != nil {
		web.Fail(w, r, err)
		return
	}
	web.OK(w, map[string]any{"liked": liked})
}

/*──────────────────────────── param helpers ────────────────────────────────*/

// idParam parses the {id} route parameter.
func idParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, web.NewValidationError("invalid id")
	}
	return id, nil
}

// pageParams reads limit and offset with a default and a hard cap.
func pageParams(r *http.Request, def, max int) (limit, offset int) {
	limit = def
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	if limit > max {
		limit = max
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}
