// components/fatwa/repository.go
//
// SQL access for the fatawa table, including the two-phase tag lookup and
// the free-text search the dashboard uses.

package fatwa

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/masailworld/masail-server/internal/tagquery"
	"github.com/masailworld/masail-server/internal/web"
)

const rowCols = `id, Title, slug, detailquestion, tafseel, Answer, muftisahab, mozuwat,
	questionername, questionaremail, tags, status, isActive, Likes, Views, created_at`

// Repo wraps the database handle.
type Repo struct {
	db *sqlx.DB
}

func NewRepo(db *sqlx.DB) *Repo { return &Repo{db: db} }

// ConflictingSlugs feeds the slug resolver; see components/article for the
// shape of the conflict set.
func (r *Repo) ConflictingSlugs(ctx context.Context, base string, excludeID int64) ([]string, error) {
	const q = `SELECT slug FROM fatawa WHERE (slug = ? OR slug LIKE CONCAT(?, '-%')) AND id <> ?`

	var slugs []string
	if err := r.db.SelectContext(ctx, &slugs, q, base, base, excludeID); err != nil {
		return nil, err
	}
	return slugs, nil
}

// Insert persists f and returns its ID.  Duplicate-key errors pass through
// for the caller's retry.
func (r *Repo) Insert(ctx context.Context, f *Fatwa) (int64, error) {
	const q = `
		INSERT INTO fatawa (Title, slug, detailquestion, tafseel, Answer, muftisahab, mozuwat,
			questionername, questionaremail, tags, status, isActive, Likes, Views, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, 0, 0, NOW())`

	res, err := r.db.ExecContext(ctx, q,
		f.Title, f.Slug, f.DetailQuestion, f.Tafseel, f.Answer, f.MuftiSahab,
		f.Mozuwat, f.QuestionerName, f.QuestionerEmail, f.Tags, f.Status)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetByID loads one fatwa in any state.
func (r *Repo) GetByID(ctx context.Context, id int64) (*Fatwa, error) {
	q := `SELECT ` + rowCols + ` FROM fatawa WHERE id = ?`

	var f Fatwa
	if err := r.db.GetContext(ctx, &f, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, web.NewNotFoundError("fatwa not found")
		}
		return nil, err
	}
	return &f, nil
}

// answeredFilter scopes public reads.  Rows predating the status column
// have NULL there and count as answered.
const answeredFilter = `(status = 'answered' OR status IS NULL) AND isActive = 1`

// List returns one page of answered, active fatawa, newest first.
func (r *Repo) List(ctx context.Context, limit, offset int) ([]Fatwa, int64, error) {
	const where = ` WHERE ` + answeredFilter

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM fatawa`+where); err != nil {
		return nil, 0, err
	}

	q := `SELECT ` + rowCols + ` FROM fatawa` + where + ` ORDER BY id DESC LIMIT ? OFFSET ?`
	rows := []Fatwa{}
	if err := r.db.SelectContext(ctx, &rows, q, limit, offset); err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Latest returns the three newest answered fatawa for the home page.
func (r *Repo) Latest(ctx context.Context) ([]Fatwa, error) {
	q := `SELECT ` + rowCols + ` FROM fatawa
		WHERE ` + answeredFilter + `
		ORDER BY id DESC LIMIT 3`

	rows := []Fatwa{}
	if err := r.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, err
	}
	return rows, nil
}

// RecentlyViewed returns the three most recently touched answered fatawa.
// The view increment bumps updated_at (ON UPDATE CURRENT_TIMESTAMP), so
// recency of viewing is read off that column without an event table.
func (r *Repo) RecentlyViewed(ctx context.Context) ([]Fatwa, error) {
	q := `SELECT ` + rowCols + ` FROM fatawa
		WHERE ` + answeredFilter + ` AND Views > 0
		ORDER BY updated_at DESC LIMIT 3`

	rows := []Fatwa{}
	if err := r.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, err
	}
	return rows, nil
}

// Search runs a LIKE match over title, question, answer, and tags.  status
// and active narrow the scope the same way the tag lookup does.
func (r *Repo) Search(ctx context.Context, term, status, active string, limit, offset int) ([]Fatwa, int64, error) {
	where := ` WHERE (Title LIKE ? OR detailquestion LIKE ? OR Answer LIKE ? OR IFNULL(tags,'') LIKE ?)`
	needle := "%" + term + "%"
	args := []any{needle, needle, needle, needle}

	if status != "" && status != "any" {
		if status == "answered" {
			where += " AND (status = ? OR status IS NULL)"
		} else {
			where += " AND status = ?"
		}
		args = append(args, status)
	}
	if active != "" && active != "any" {
		where += " AND isActive = ?"
		args = append(args, active)
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM fatawa`+where, args...); err != nil {
		return nil, 0, err
	}

	q := `SELECT ` + rowCols + ` FROM fatawa` + where + ` ORDER BY id DESC LIMIT ? OFFSET ?`
	rows := []Fatwa{}
	if err := r.db.SelectContext(ctx, &rows, q, append(args, limit, offset)...); err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ByTag runs one strategy of the tag lookup and its matching count.  The
// handler tries the exact clause first and falls back to the loose one;
// the count always comes from the clause that produced the rows.
func (r *Repo) ByTag(ctx context.Context, c tagquery.Clause, order string, limit, offset int) ([]Fatwa, int64, error) {
	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM fatawa WHERE `+c.Where, c.Args...); err != nil {
		return nil, 0, err
	}

	q := `SELECT ` + rowCols + ` FROM fatawa WHERE ` + c.Where +
		` ORDER BY ` + order + ` LIMIT ? OFFSET ?`
	rows := []Fatwa{}
	if err := r.db.SelectContext(ctx, &rows, q, append(append([]any{}, c.Args...), limit, offset)...); err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Update applies the non-nil fields of u plus the already-resolved slug.
func (r *Repo) Update(ctx context.Context, id int64, u updateRequest, newSlug string) error {
	sets := make([]string, 0, 10)
	args := make([]any, 0, 11)

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
	if u.DetailQuestion != nil {
		add("detailquestion", *u.DetailQuestion)
	}
	if u.Tafseel != nil {
		add("tafseel", *u.Tafseel)
	}
	if u.Answer != nil {
		add("Answer", *u.Answer)
	}
	if u.MuftiSahab != nil {
		add("muftisahab", *u.MuftiSahab)
	}
	if u.Mozuwat != nil {
		add("mozuwat", *u.Mozuwat)
	}
	if u.Tags != nil {
		add("tags", *u.Tags)
	}
	if u.Status != nil {
		add("status", *u.Status)
	}
	if u.Active != nil {
		add("isActive", *u.Active)
	}
	if len(sets) == 0 {
		return web.NewValidationError("no fields to update")
	}

	q := "UPDATE fatawa SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	args = append(args, id)

	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	return requireRow(res, "fatwa not found")
}

// Answer completes a pending question in one statement, so a question can
// never sit answered-but-empty.
func (r *Repo) Answer(ctx context.Context, id int64, a answerRequest) error {
	const q = `
		UPDATE fatawa
		SET Answer = ?, muftisahab = ?, tafseel = ?, tags = ?, status = 'answered'
		WHERE id = ? AND status = 'pending'`

	res, err := r.db.ExecContext(ctx, q, a.Answer, a.MuftiSahab, a.Tafseel, a.Tags, id)
	if err != nil {
		return err
	}
	return requireRow(res, "pending fatwa not found")
}

// SoftDelete retires a fatwa.
func (r *Repo) SoftDelete(ctx context.Context, id int64) error {
	const q = `UPDATE fatawa SET isActive = 0 WHERE id = ?`

	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	return requireRow(res, "fatwa not found")
}

// IncrementViews bumps the plain view counter and returns the new total.
// Missing IDs are a 404 and write nothing.
func (r *Repo) IncrementViews(ctx context.Context, id int64) (int64, error) {
	const q = `UPDATE fatawa SET Views = Views + 1 WHERE id = ?`

	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return 0, err
	}
	if err := requireRow(res, "fatwa not found"); err != nil {
		return 0, err
	}

	var views int64
	if err := r.db.GetContext(ctx, &views, `SELECT Views FROM fatawa WHERE id = ?`, id); err != nil {
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
