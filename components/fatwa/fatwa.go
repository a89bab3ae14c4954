// components/fatwa/fatwa.go
//
// Fatwa component – question intake, answer workflow, search, and the
// two-phase tag lookup.
//
/*
Routes (mounted at /api/fatwa)
------------------------------
  POST   /ask            public question intake (lands pending)
  POST   /               dashboard create (lands answered)
  GET    /               paged list of answered, active fatawa
  GET    /{id}           detail (any state, dashboard)
  PATCH  /{id}           partial update
  POST   /{id}/answer    complete a pending question
  DELETE /{id}           soft delete
  GET    /latest         three newest answered
  GET    /recently-viewed  three most recently read
  GET    /search         ?q= free text, ?status= ?isActive= overrides
  GET    /tag/{tag}      exact match, loose fallback; most-viewed first,
                         ?orderBy=recent for newest-first
  GET    /by-tag         same lookup, ?tag= form (CSV of tags, ANY-match),
                         ?loose=1 forces substring
  POST   /{id}/view      plain +1, returns {id, Views}, 404 writes nothing

PUT aliases are registered next to PATCH /{id} and POST /{id}/view for
older dashboard builds.

Tag lookup
----------
The query may carry several tags at once ("فقه,متفرقات"); a row matches
when it carries any of them.  The exact strategy treats the tags column
as a canonical comma list and matches whole tokens; when it returns no
rows the loose substring pass runs.  The reported total always comes
from whichever strategy produced the page, so pagination and the count
never disagree.
*/
package fatwa

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/masailworld/masail-server/internal/database"
	"github.com/masailworld/masail-server/internal/metrics"
	"github.com/masailworld/masail-server/internal/slug"
	"github.com/masailworld/masail-server/internal/tagquery"
	"github.com/masailworld/masail-server/internal/web"
)

var validate = validator.New()

// Comp wires the fatwa routes to storage.
type Comp struct {
	repo *Repo
}

func New(repo *Repo) *Comp { return &Comp{repo: repo} }

func (c *Comp) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/ask", c.ask)
	r.Post("/", c.create)
	r.Get("/", c.list)
	r.Get("/latest", c.latest)
	r.Get("/recently-viewed", c.recentlyViewed)
	r.Get("/search", c.search)
	r.Get("/tag/{tag}", c.byTag)
	r.Get("/by-tag", c.byTag) // ?tag= form used by the dashboard
	r.Get("/{id}", c.get)
	r.Patch("/{id}", c.update)
	r.Put("/{id}", c.update)
	r.Post("/{id}/answer", c.answer)
	r.Delete("/{id}", c.remove)
	r.Post("/{id}/view", c.view)
	r.Put("/{id}/view", c.view)

	return r
}

/*──────────────────────────── intake and create ────────────────────────────*/

func (c *Comp) ask(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Fail(w, r, web.NewValidationError("invalid JSON body"))
		return
	}
	if err := validate.Struct(req); err != nil {
		web.Fail(w, r, web.NewValidationError("Title and detailquestion are required"))
		return
	}

	f := &Fatwa{
		Title:           req.Title,
		DetailQuestion:  req.DetailQuestion,
		QuestionerName:  req.QuestionerName,
		QuestionerEmail: req.QuestionerEmail,
		Status:          StatusPending,
	}
	c.insertResolved(w, r, f, req.Title)
}

func (c *Comp) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Fail(w, r, web.NewValidationError("invalid JSON body"))
		return
	}
	if err := validate.Struct(req); err != nil {
		web.Fail(w, r, web.NewValidationError("Title and Answer are required"))
		return
	}

	seed := req.Slug
	if seed == "" {
		seed = req.Title
	}
	f := &Fatwa{
		Title:          req.Title,
		DetailQuestion: req.DetailQuestion,
		Tafseel:        req.Tafseel,
		Answer:         req.Answer,
		MuftiSahab:     req.MuftiSahab,
		Mozuwat:        req.Mozuwat,
		Tags:           req.Tags,
		Status:         StatusAnswered,
	}
	c.insertResolved(w, r, f, seed)
}

// insertResolved resolves the slug, inserts, and retries once when the
// unique key fires under a race.
func (c *Comp) insertResolved(w http.ResponseWriter, r *http.Request, f *Fatwa, seed string) {
	ctx := r.Context()

	resolved, err := slug.Resolve(ctx, c.repo, seed, 0)
	if err != nil {
		web.Fail(w, r, err)
		return
	}
	f.Slug = resolved

	id, err := c.repo.Insert(ctx, f)
	if database.IsDuplicateEntry(err) {
		metrics.SlugRetryTotal.Inc()
		if f.Slug, err = slug.Resolve(ctx, c.repo, f.Slug, 0); err != nil {
			web.Fail(w, r, err)
			return
		}
		id, err = c.repo.Insert(ctx, f)
		if database.IsDuplicateEntry(err) {
			web.Fail(w, r, web.NewConflictError("slug conflict, please retry"))
			return
		}
	}
	if err != nil {
		web.Fail(w, r, err)
		return
	}

	metrics.ContentCreatedTotal.WithLabelValues("fatwa").Inc()
	created, err := c.repo.GetByID(ctx, id)
	if err != nil {
		web.Fail(w, r, err)
		return
	}
	web.Created(w, created)
}

/*──────────────────────────── reads ────────────────────────────────────────*/

func (c *Comp) list(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r, 50, 200)

	rows, total, err := c.repo.List(r.Context(), limit, offset)
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

func (c *Comp) latest(w http.ResponseWriter, r *http.Request) {
	rows, err := c.repo.Latest(r.Context())
	if err != nil {
		web.Fail(w, r, err)
		return
	}
	web.OK(w, rows)
}

func (c *Comp) recentlyViewed(w http.ResponseWriter, r *http.Request) {
	rows, err := c.repo.RecentlyViewed(r.Context())
	if err != nil {
		web.Fail(w, r, err)
		return
	}
	web.OK(w, rows)
}

func (c *Comp) get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		web.Fail(w, r, err)
		return
	}
	f, err := c.repo.GetByID(r.Context(), id)
	if err != nil {
		web.Fail(w, r, err)
		return
	}
	web.OK(w, f)
}

func (c *Comp) search(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	if term == "" {
		web.Fail(w, r, web.NewValidationError("q is required"))
		return
	}
	// Public default: answered, active.  The dashboard overrides with
	// explicit status/isActive parameters ("any" lifts the filter).
	status := queryDefault(r, "status", StatusAnswered)
	active := queryDefault(r, "isActive", "1")
	limit, offset := pageParams(r, 50, 200)

	rows, total, err := c.repo.Search(r.Context(), term, status, active, limit, offset)
	if err != nil {
		web.Fail(w, r, err)
		return
	}
	web.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    rows,
		"total":   total,
		"count":   len(rows),
		"q":       term,
	})
}

func (c *Comp) byTag(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "tag")
	if token == "" {
		token = r.URL.Query().Get("tag")
	}
	q := tagquery.Query{
		Token:   token,
		Status:  queryDefault(r, "status", StatusAnswered),
		Active:  queryDefault(r, "isActive", "1"),
		OrderBy: r.URL.Query().Get("orderBy"),
	}
	if !q.Valid() {
		web.Fail(w, r, web.NewValidationError("tag is required"))
		return
	}
	limit, offset := pageParams(r, 50, 200)
	ctx := r.Context()

	// ?loose=1 skips the exact pass outright.
	forceLoose := r.URL.Query().Get("loose") == "1" || r.URL.Query().Get("loose") == "true"

	strategy := "exact"
	var (
		rows  []Fatwa
		total int64
		err   error
	)
	if forceLoose {
		strategy = "loose"
		rows, total, err = c.repo.ByTag(ctx, q.Loose(), q.Order(), limit, offset)
	} else {
		rows, total, err = c.repo.ByTag(ctx, q.Exact(), q.Order(), limit, offset)
	}
	if err != nil {
		web.Fail(w, r, err)
		return
	}
	if len(rows) == 0 && !forceLoose {
		strategy = "loose"
		metrics.TagFallbackTotal.Inc()
		if rows, total, err = c.repo.ByTag(ctx, q.Loose(), q.Order(), limit, offset); err != nil {
			web.Fail(w, r, err)
			return
		}
	}

	web.JSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"data":     rows,
		"total":    total,
		"count":    len(rows),
		"strategy": strategy,
		"filters": map[string]string{
			"status":   q.Status,
			"isActive": q.Active,
			"orderBy":  q.OrderBy,
		},
	})
}

/*──────────────────────────── writes ───────────────────────────────────────*/

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
	if req.Status != nil && *req.Status != StatusPending && *req.Status != StatusAnswered {
		web.Fail(w, r, web.NewValidationError("status must be pending or answered"))
		return
	}

	ctx := r.Context()

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

func (c *Comp) answer(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		web.Fail(w, r, err)
		return
	}
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Fail(w, r, web.NewValidationError("invalid JSON body"))
		return
	}
	if err := validate.Struct(req); err != nil {
		web.Fail(w, r, web.NewValidationError("Answer is required"))
		return
	}

	if err := c.repo.Answer(r.Context(), id, req); err != nil {
		web.Fail(w, r, err)
		return
	}
	answered, err := c.repo.GetByID(r.Context(), id)
	if err != nil {
		web.Fail(w, r, err)
		return
	}
	web.OK(w, answered)
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

func (c *Comp) view(w http.ResponseWriter, r *http.Request) {
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

/*──────────────────────────── param helpers ────────────────────────────────*/

func idParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, web.NewValidationError("invalid id")
	}
	return id, nil
}

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

// queryDefault reads a query parameter with a fallback.
func queryDefault(r *http.Request, key, def string) string {
	if v := r.URL.Query().Get(key); v != "" {
		return v
	}
	return def
}
