// components/book/book.go
//
// Book component – catalog REST plus cover and PDF blob endpoints.
//
/*
Routes (mounted at /api/book)
-----------------------------
  POST   /            create (slug from BookName, one retry on a race)
  GET    /            paged list of active books
  GET    /{id}        detail, blobs excluded
  PATCH  /{id}        partial update
  DELETE /{id}        soft delete
  GET    /{id}/cover  cover blob, Content-Type from BookCoverType
  PUT    /{id}/cover  replace cover, stores the declared content type
  GET    /{id}/pdf    book file
  PUT    /{id}/pdf    replace book file
  POST   /{id}/view   plain +1 for active rows, returns {id, Views}

PUT /{id} is registered next to PATCH for older dashboard builds.
*/
package book

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/masailworld/masail-server/internal/database"
	"github.com/masailworld/masail-server/internal/metrics"
	"github.com/masailworld/masail-server/internal/slug"
	"github.com/masailworld/masail-server/internal/web"
)

const (
	maxCoverBytes = 8 << 20
	maxPDFBytes   = 64 << 20
)

var validate = validator.New()

// Comp wires the book routes to storage.
type Comp struct {
	repo *Repo
}

func New(repo *Repo) *Comp { return &Comp{repo: repo} }

func (c *Comp) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", c.create)
	r.Get("/", c.list)
	r.Get("/{id}", c.get)
	r.Patch("/{id}", c.update)
	r.Put("/{id}", c.update)
	r.Delete("/{id}", c.remove)

	r.Get("/{id}/cover", c.cover)
	r.Put("/{id}/cover", c.setCover)
	r.Get("/{id}/pdf", c.pdf)
	r.Put("/{id}/pdf", c.setPDF)

	r.Post("/{id}/view", c.view)

	return r
}

func (c *Comp) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Fail(w, r, web.NewValidationError("invalid JSON body"))
		return
	}
	if err := validate.Struct(req); err != nil {
		web.Fail(w, r, web.NewValidationError("BookName is required"))
		return
	}

	seed := req.Slug
	if seed == "" {
		seed = req.Name
	}
	ctx := r.Context()
	b := &Book{
		Name:        req.Name,
		Writer:      req.Writer,
		Description: req.Description,
		Tags:        req.Tags,
	}

	resolved, err := slug.Resolve(ctx, c.repo, seed, 0)
	if err != nil {
		web.Fail(w, r, err)
		return
	}
	b.Slug = resolved

	id, err := c.repo.Insert(ctx, b)
	if database.IsDuplicateEntry(err) {
		metrics.SlugRetryTotal.Inc()
		if b.Slug, err = slug.Resolve(ctx, c.repo, b.Slug, 0); err != nil {
			web.Fail(w, r, err)
			return
		}
		id, err = c.repo.Insert(ctx, b)
		if database.IsDuplicateEntry(err) {
			web.Fail(w, r, web.NewConflictError("slug conflict, please retry"))
			return
		}
	}
	if err != nil {
		web.Fail(w, r, err)
		return
	}

	metrics.ContentCreatedTotal.WithLabelValues("book").Inc()
	created, err := c.repo.GetByID(ctx, id)
	if err != nil {
		web.Fail(w, r, err)
		return
	}
	web.Created(w, created)
}

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

func (c *Comp) get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		web.Fail(w, r, err)
		return
	}
	b, err := c.repo.GetByID(r.Context(), id)
	if err != nil {
		web.Fail(w, r, err)
		return
	}
	web.OK(w, b)
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

	seed := ""
	if req.Slug != nil {
		seed = *req.Slug
	} else if req.Name != nil {
		seed = *req.Name
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

/*──────────────────────────── blobs ────────────────────────────────────────*/

func (c *Comp) cover(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		web.Fail(w, r, err)
		return
	}
	img, ct, err := c.repo.Cover(r.Context(), id)
	if err != nil {
		web.Fail(w, r, err)
		return
	}
	if ct == "" {
		ct = http.DetectContentType(img)
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(img)
}

func (c *Comp) setCover(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		web.Fail(w, r, err)
		return
	}
	img, err := readBlob(r, maxCoverBytes)
	if err != nil {
		web.Fail(w, r, err)
		return
	}
	ct := r.Header.Get("Content-Type")
	if ct == "" || strings.HasPrefix(ct, "application/octet-stream") {
		ct = http.DetectContentType(img)
	}
	if err := c.repo.SetCover(r.Context(), id, img, ct); err != nil {
		web.Fail(w, r, err)
		return
	}
	web.OK(w, map[string]any{"id": id, "bytes": len(img), "contentType": ct})
}

func (c *Comp) pdf(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		web.Fail(w, r, err)
		return
	}
	blob, err := c.repo.PDF(r.Context(), id)
	if err != nil {
		web.Fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="book-`+strconv.FormatInt(id, 10)+`.pdf"`)
	w.Write(blob)
}

func (c *Comp) setPDF(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		web.Fail(w, r, err)
		return
	}
	blob, err := readBlob(r, maxPDFBytes)
	if err != nil {
		web.Fail(w, r, err)
		return
	}
	if err := c.repo.SetPDF(r.Context(), id, blob); err != nil {
		web.Fail(w, r, err)
		return
	}
	web.OK(w, map[string]any{"id": id, "bytes": len(blob)})
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

/*──────────────────────────── helpers ──────────────────────────────────────*/

// readBlob reads a bounded request body, rejecting empty and oversize
// uploads.
func readBlob(r *http.Request, max int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, max+1))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, web.NewValidationError("empty body")
	}
	if int64(len(data)) > max {
		return nil, web.NewValidationError("body too large")
	}
	return data, nil
}

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
