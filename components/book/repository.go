// components/book/repository.go
//
// SQL access for the Books table, including the cover and PDF blobs with
// their stored content type.

package book

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/masailworld/masail-server/internal/web"
)

const rowCols = "id, BookName, slug, BookWriter, BookDescription, Tags, BookCoverType, isActive, Views, InsertedDate"

// Repo wraps the database handle.
type Repo struct {
	db *sqlx.DB
}

func NewRepo(db *sqlx.DB) *Repo { return &Repo{db: db} }

// ConflictingSlugs feeds the slug resolver.
func (r *Repo) ConflictingSlugs(ctx context.Context, base string, excludeID int64) ([]string, error) {
	const q = `SELECT slug FROM Books WHERE (slug = ? OR slug LIKE CONCAT(?, '-%')) AND id <> ?`

	var slugs []string
	if err := r.db.SelectContext(ctx, &slugs, q, base, base, excludeID); err != nil {
		return nil, err
	}
	return slugs, nil
}

// Insert persists a new book and returns its ID.
func (r *Repo) Insert(ctx context.Context, b *Book) (int64, error) {
	const q = `
		INSERT INTO Books (BookName, slug, BookWriter, BookDescription, Tags, isActive, Views, InsertedDate)
		VALUES (?, ?, ?, ?, ?, 1, 0, NOW())`

	res, err := r.db.ExecContext(ctx, q, b.Name, b.Slug, b.Writer, b.Description, b.Tags)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetByID loads one book in any state, blobs excluded.
func (r *Repo) GetByID(ctx context.Context, id int64) (*Book, error) {
	const q = `SELECT ` + rowCols + ` FROM Books WHERE id = ?`

	var b Book
	if err := r.db.GetContext(ctx, &b, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, web.NewNotFoundError("book not found")
		}
		return nil, err
	}
	return &b, nil
}

// List returns one page of active books, newest first, plus the total.
func (r *Repo) List(ctx context.Context, limit, offset int) ([]Book, int64, error) {
	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM Books WHERE isActive = 1`); err != nil {
		return nil, 0, err
	}

	const q = `SELECT ` + rowCols + ` FROM Books WHERE isActive = 1 ORDER BY id DESC LIMIT ? OFFSET ?`
	rows := []Book{}
	if err := r.db.SelectContext(ctx, &rows, q, limit, offset); err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Update applies the non-nil fields of u plus the already-resolved slug.
func (r *Repo) Update(ctx context.Context, id int64, u updateRequest, newSlug string) error {
	sets := make([]string, 0, 6)
	args := make([]any, 0, 7)

	add := func(col string, val any) {
		sets = append(sets, col+" = ?")
		args = append(args, val)
	}
	if u.Name != nil {
		add("BookName", *u.Name)
	}
	if newSlug != "" {
		add("slug", newSlug)
	}
	if u.Writer != nil {
		add("BookWriter", *u.Writer)
	}
	if u.Description != nil {
		add("BookDescription", *u.Description)
	}
	if u.Tags != nil {
		add("Tags", *u.Tags)
	}
	if u.Active != nil {
		add("isActive", *u.Active)
	}
	if len(sets) == 0 {
		return web.NewValidationError("no fields to update")
	}

	q := "UPDATE Books SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	args = append(args, id)

	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	return requireRow(res, "book not found")
}

// SoftDelete retires a book.
func (r *Repo) SoftDelete(ctx context.Context, id int64) error {
	const q = `UPDATE Books SET isActive = 0 WHERE id = ?`

	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	return requireRow(res, "book not found")
}

// Cover loads the cover blob and its stored content type.
func (r *Repo) Cover(ctx context.Context, id int64) ([]byte, string, error) {
	const q = `SELECT BookCoverImg, IFNULL(BookCoverType, '') FROM Books WHERE id = ? AND isActive = 1`

	var (
		img []byte
		ct  string
	)
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&img, &ct); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", web.NewNotFoundError("book not found")
		}
		return nil, "", err
	}
	if len(img) == 0 {
		return nil, "", web.NewNotFoundError("book has no cover image")
	}
	return img, ct, nil
}

// SetCover stores the cover blob with its declared content type.
func (r *Repo) SetCover(ctx context.Context, id int64, img []byte, contentType string) error {
	const q = `UPDATE Books SET BookCoverImg = ?, BookCoverType = ? WHERE id = ?`

	res, err := r.db.ExecContext(ctx, q, img, contentType, id)
	if err != nil {
		return err
	}
	return requireRow(res, "book not found")
}

// PDF loads the book file blob.
func (r *Repo) PDF(ctx context.Context, id int64) ([]byte, error) {
	const q = `SELECT BookPDF FROM Books WHERE id = ? AND isActive = 1`

	var pdf []byte
	if err := r.db.GetContext(ctx, &pdf, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, web.NewNotFoundError("book not found")
		}
		return nil, err
	}
	if len(pdf) == 0 {
		return nil, web.NewNotFoundError("book has no PDF")
	}
	return pdf, nil
}

// SetPDF stores the book file blob.
func (r *Repo) SetPDF(ctx context.Context, id int64, pdf []byte) error {
	const q = `UPDATE Books SET BookPDF = ? WHERE id = ?`

	res, err := r.db.ExecContext(ctx, q, pdf, id)
	if err != nil {
		return err
	}
	return requireRow(res, "book not found")
}

// IncrementViews bumps the view counter of an active book and returns the
// new total.  Retired books 404 and write nothing.
func (r *Repo) IncrementViews(ctx context.Context, id int64) (int64, error) {
	const q = `UPDATE Books SET Views = Views + 1 WHERE id = ? AND isActive = 1`

	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return 0, err
	}
	if err := requireRow(res, "book not found"); err != nil {
		return 0, err
	}

	var views int64
	if err := r.db.GetContext(ctx, &views, `SELECT Views FROM Books WHERE id = ?`, id); err != nil {
		return 0, err
	}
	return views, nil
}

// requireRow converts a zero-row update into a typed NotFound error.
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
