// components/article/repository.go
//
// SQL access for the Article table.
//
// Context
// -------
// Queries are raw SQL constants bound through sqlx.  List and detail
// queries never touch the coverImage blob; the cover endpoint loads it
// alone.  Missing rows come back as typed NotFound errors so handlers
// never see sql.ErrNoRows.

package article

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/masailworld/masail-server/internal/web"
)

// rowCols is every column except the blob.
const rowCols = "id, Title, slug, tags, seo, writer, ArticleText, isActive, Likes, Views, created_at"

// Repo wraps the database handle.
type Repo struct {
	db *sqlx.DB
}

func NewRepo(db *sqlx.DB) *Repo { return &Repo{db: db} }

// ConflictingSlugs returns every slug that could collide with base: the
// base itself or base plus a numeric suffix.  excludeID skips the row
// being updated so it cannot conflict with itself; zero excludes nothing.
func (r *Repo) ConflictingSlugs(ctx context.Context, base string, excludeID int64) ([]string, error) {
	const q = `SELECT slug FROM Article WHERE (slug = ? OR slug LIKE CONCAT(?, '-%')) AND id <> ?`

	var slugs []string
	if err := r.db.SelectContext(ctx, &slugs, q, base, base, excludeID); err != nil {
		return nil, err
	}
	return slugs, nil
}

// Insert persists a new article and returns its ID.  A duplicate-key error
// passes through untouched for the caller's retry logic.
func (r *Repo) Insert(ctx context.Context, a *Article) (int64, error) {
	const q = `
		INSERT INTO Article (Title, slug, tags, seo, writer, ArticleText, isActive, Likes, Views, created_at)
		VALUES (?, ?, ?, ?, ?, ?, 1, 0, 0, NOW())`

	res, err := r.db.ExecContext(ctx, q, a.Title, a.Slug, a.Tags, a.SEO, a.Writer, a.Text)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetByID loads one article regardless of active state (dashboard use).
func (r *Repo) GetByID(ctx context.Context, id int64) (*Article, error) {
	const q = `SELECT ` + rowCols + ` FROM Article WHERE id = ?`

	var a Article
	if err := r.db.GetContext(ctx, &a, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, web.NewNotFoundError("article not found")
		}
		return nil, err
	}
	return &a, nil
}

// GetBySlug loads one active article (public detail page).
func (r *Repo) GetBySlug(ctx context.Context, slug string) (*Article, error) {
	const q = `SELECT ` + rowCols + ` FROM Article WHERE slug = ? AND isActive = 1`

	var a Article
	if err := r.db.GetContext(ctx, &a, q, slug); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, web.NewNotFoundError("article not found")
		}
		return nil, err
	}
	return &a, nil
}

// List returns one page of articles, newest first, plus the unpaged total.
// activeOnly distinguishes the public listing from the dashboard one.
func (r *Repo) List(ctx context.Context, limit, offset int, activeOnly bool) ([]Article, int64, error) {
	where := ""
	if activeOnly {
		where = " WHERE isActive = 1"
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM Article"+where); err != nil {
		return nil, 0, err
	}

	q := `SELECT ` + rowCols + ` FROM Article` + where + ` ORDER BY id DESC LIMIT ? OFFSET ?`
	rows := []Article{}
	if err := r.db.SelectContext(ctx, &rows, q, limit, offset); err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Update applies the non-nil fields of u, plus the already-resolved slug
// when newSlug is non-empty.  The SET clause is built from fixed column
// names; only values are bound.
func (r *Repo) Update(ctx context.Context, id int64, u updateRequest, newSlug string) error {
	sets := make([]string, 0, 7)
	args := make([]any, 0, 8)

	add := func(col string, val any) {
		sets = append(sets, col+" = ?")
		args = append(args, val)
	}
	if u.Title != nil {
		add("Title", *u.Title)
	}
	if newSlug != "" {
		add("slug", newSlug)
	}
	if u.Tags != nil {
		add("tags", *u.Tags)
	}
	if u.SEO != nil {
		add("seo", *u.SEO)
	}
	if u.Writer != nil {
		add("writer", *u.Writer)
	}
	if u.Text != nil {
		add("ArticleText", *u.Text)
	}
	if u.Active != nil {
		add("isActive", *u.Active)
	}
	if len(sets) == 0 {
		return web.NewValidationError("no fields to update")
	}

	q := "UPDATE Article SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	args = append(args, id)

	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	return requireRow(res, "article not found")
}

// SoftDelete retires an article; the row and its event history stay.
func (r *Repo) SoftDelete(ctx context.Context, id int64) error {
	const q = `UPDATE Article SET isActive = 0 WHERE id = ?`

	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	return requireRow(res, "article not found")
}

// IncrementViews is the legacy unconditional counter bump kept for old
// clients that do not send the per-visitor view event.  Returns the new
// total.
func (r *Repo) IncrementViews(ctx context.Context, id int64) (int64, error) {
	const q = `UPDATE Article SET Views = Views + 1 WHERE id = ?`

	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return 0, err
	}
	if err := requireRow(res, "article not found"); err != nil {
		return 0, err
	}

	var views int64
	if err := r.db.GetContext(ctx, &views, `SELECT Views FROM Article WHERE id = ?`, id); err != nil {
		return 0, err
	}
	return views, nil
}

// Cover loads the cover image blob.
func (r *Repo) Cover(ctx context.Context, id int64) ([]byte, error) {
	const q = `SELECT coverImage FROM Article WHERE id = ? AND isActive = 1`

	var img []byte
	if err := r.db.GetContext(ctx, &img, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, web.NewNotFoundError("article not found")
		}
		return nil, err
	}
	if len(img) == 0 {
		return nil, web.NewNotFoundError("article has no cover image")
	}
	return img, nil
}

// SetCover stores the cover image blob.
func (r *Repo) SetCover(ctx context.Context, id int64, img []byte) error {
	const q = `UPDATE Article SET coverImage = ? WHERE id = ?`

	res, err := r.db.ExecContext(ctx, q, img, id)
	if err != nil {
		return err
	}
	return requireRow(res, "article not found")
}

// requireRow converts a zero-row update into a typed NotFound error.  The
// DSN carries clientFoundRows=true, so an update that matches a row but
// changes nothing still counts as one row.
func requireRow(res sql.Result, msg string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return web.NewNotFoundError(msg)
	}
	return nil
}
