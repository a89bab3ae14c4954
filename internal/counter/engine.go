// internal/counter/engine.go
//
// Like and view counting with denormalized totals.
//
// Context
// -------
// The entity table carries Likes and Views columns that the read path can
// select without joins.  Truth lives in two event tables: one like row per
// (entity, anon) pair, and one view row per (entity, anon, UTC day).  Both
// carry unique keys, so INSERT IGNORE makes every recording idempotent and
// RowsAffected tells us whether this request actually changed anything.
//
// After a mutating event the totals are recomputed with COUNT(*) and written
// back, so the denormalized columns can drift only between an event insert
// and its recompute, never across requests.  Deleting event rows (moderation
// cleanup) heals on the next recompute.
//
// Workflow (view)
// ---------------
//  1. Confirm the entity row exists, honoring the active filter; a missing
//     or retired entity is a NotFoundError and nothing is written.
//  2. INSERT IGNORE the (entity, anon, day) row.
//  3. When the insert landed, recompute; otherwise the day total already
//     includes this visitor and only the fresh totals are read back.

package counter

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/masailworld/masail-server/internal/web"
)

// Spec names the tables and columns the engine operates on.  Table and
// column names come from compiled-in specs, never from request input.
type Spec struct {
	// EntityTable holds the denormalized counters.
	EntityTable string
	// IDColumn is the entity primary key, usually "id".
	IDColumn string
	// ActiveColumn, when non-empty, restricts events to rows where the
	// column equals 1.
	ActiveColumn string
	// LikesColumn and ViewsColumn are the denormalized counter columns.
	LikesColumn string
	ViewsColumn string

	// LikesTable and ViewsTable are the event tables; FKColumn is the
	// entity reference in both.
	LikesTable string
	ViewsTable string
	FKColumn   string
}

// Totals is the denormalized pair after a recompute or read-back.
type Totals struct {
	Likes int64 `json:"likes"`
	Views int64 `json:"views"`
}

// ViewResult reports whether this request's view was counted, alongside the
// current totals.
type ViewResult struct {
	Counted bool  `json:"counted"`
	Views   int64 `json:"views"`
}

// Engine records events and maintains the totals for one entity kind.
type Engine struct {
	db *sqlx.DB

	qExists     string
	qInsertView string
	qInsertLike string
	qDeleteLike string
	qHasLike    string
	qCountLikes string
	qCountViews string
	qWriteBack  string
	qReadBack   string
}

// New builds an Engine for spec.  All SQL is rendered once here; the
// handlers only ever bind values.
func New(db *sqlx.DB, spec Spec) *Engine {
	active := ""
	if spec.ActiveColumn != "" {
		active = fmt.Sprintf(" AND %s = 1", spec.ActiveColumn)
	}
	return &Engine{
		db: db,
		qExists: fmt.Sprintf(
			"SELECT %s FROM %s WHERE %s = ?%s",
			spec.IDColumn, spec.EntityTable, spec.IDColumn, active),
		qInsertView: fmt.Sprintf(
			"INSERT IGNORE INTO %s (%s, anon_id, view_date, created_at) VALUES (?, ?, ?, NOW())",
			spec.ViewsTable, spec.FKColumn),
		qInsertLike: fmt.Sprintf(
			"INSERT IGNORE INTO %s (%s, anon_id, created_at) VALUES (?, ?, NOW())",
			spec.LikesTable, spec.FKColumn),
		qDeleteLike: fmt.Sprintf(
			"DELETE FROM %s WHERE %s = ? AND anon_id = ?",
			spec.LikesTable, spec.FKColumn),
		qHasLike: fmt.Sprintf(
			"SELECT 1 FROM %s WHERE %s = ? AND anon_id = ? LIMIT 1",
			spec.LikesTable, spec.FKColumn),
		qCountLikes: fmt.Sprintf(
			"SELECT COUNT(*) FROM %s WHERE %s = ?",
			spec.LikesTable, spec.FKColumn),
		qCountViews: fmt.Sprintf(
			"SELECT COUNT(*) FROM %s WHERE %s = ?",
			spec.ViewsTable, spec.FKColumn),
		qWriteBack: fmt.Sprintf(
			"UPDATE %s SET %s = ?, %s = ? WHERE %s = ?",
			spec.EntityTable, spec.LikesColumn, spec.ViewsColumn, spec.IDColumn),
		qReadBack: fmt.Sprintf(
			"SELECT %s AS likes, %s AS views FROM %s WHERE %s = ?",
			spec.LikesColumn, spec.ViewsColumn, spec.EntityTable, spec.IDColumn),
	}
}

// ensure confirms the entity exists (and is active when the spec filters).
func (e *Engine) ensure(ctx context.Context, id int64) error {
	var got int64
	err := e.db.GetContext(ctx, &got, e.qExists, id)
	if errors.Is(err, sql.ErrNoRows) {
		return web.NewNotFoundError("not found")
	}
	return err
}

// RecordView records one view for anonID on the current UTC day.  The same
// visitor on the same day is a no-op with Counted=false.
func (e *Engine) RecordView(ctx context.Context, id int64, anonID string) (ViewResult, error) {
	if err := e.ensure(ctx, id); err != nil {
		return ViewResult{}, err
	}

	day := time.Now().UTC().Format("2006-01-02")
	res, err := e.db.ExecContext(ctx, e.qInsertView, id, anonID, day)
	if err != nil {
		return ViewResult{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return ViewResult{}, err
	}

	counted := n == 1
	var totals Totals
	if counted {
		totals, err = e.Recompute(ctx, id)
	} else {
		totals, err = e.Totals(ctx, id)
	}
	if err != nil {
		return ViewResult{}, err
	}
	return ViewResult{Counted: counted, Views: totals.Views}, nil
}

// Like records anonID's like.  Repeated likes are no-ops; the returned
// count is current either way.
func (e *Engine) Like(ctx context.Context, id int64, anonID string) (int64, error) {
	if err := e.ensure(ctx, id); err != nil {
		return 0, err
	}
	if _, err := e.db.ExecContext(ctx, e.qInsertLike, id, anonID); err != nil {
		return 0, err
	}
	totals, err := e.Recompute(ctx, id)
	if err != nil {
		return 0, err
	}
	return totals.Likes, nil
}

// Unlike removes anonID's like.  Unliking something never liked is a no-op.
func (e *Engine) Unlike(ctx context.Context, id int64, anonID string) (int64, error) {
	if err := e.ensure(ctx, id); err != nil {
		return 0, err
	}
	if _, err := e.db.ExecContext(ctx, e.qDeleteLike, id, anonID); err != nil {
		return 0, err
	}
	totals, err := e.Recompute(ctx, id)
	if err != nil {
		return 0, err
	}
	return totals.Likes, nil
}

// Liked reports whether anonID currently likes the entity.
func (e *Engine) Liked(ctx context.Context, id int64, anonID string) (bool, error) {
	var one int
	err := e.db.GetContext(ctx, &one, e.qHasLike, id, anonID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Recompute counts the event tables and writes the totals back to the
// entity row.  The recompute deliberately ignores the active filter: a
// retired entity keeps accurate counters and needs no special case if it
// comes back.
func (e *Engine) Recompute(ctx context.Context, id int64) (Totals, error) {
	var t Totals
	if err := e.db.GetContext(ctx, &t.Likes, e.qCountLikes, id); err != nil {
		return Totals{}, err
	}
	if err := e.db.GetContext(ctx, &t.Views, e.qCountViews, id); err != nil {
		return Totals{}, err
	}
	if _, err := e.db.ExecContext(ctx, e.qWriteBack, t.Likes, t.Views, id); err != nil {
		return Totals{}, err
	}
	return t, nil
}

// Totals reads the denormalized pair without recomputing.  Handlers use
// this for the bot path, where nothing may be written.
func (e *Engine) Totals(ctx context.Context, id int64) (Totals, error) {
	var t Totals
	if err := e.db.GetContext(ctx, &t, e.qReadBack, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Totals{}, web.NewNotFoundError("not found")
		}
		return Totals{}, err
	}
	return t, nil
}
