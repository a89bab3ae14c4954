// components/article/article_test.go
//
// Handler-level tests over sqlmock: the chi router is exercised through
// httptest so routing, parameter parsing, and the response envelope are
// covered together with the SQL.

package article

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/masailworld/masail-server/internal/anonid"
	"github.com/masailworld/masail-server/internal/counter"
)

func newComp(t *testing.T) (*Comp, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { raw.Close() })

	db := sqlx.NewDb(raw, "sqlmock")
	return New(NewRepo(db), counter.New(db, Spec()), anonid.New(false)), mock
}

func articleRows(id int64, title, slugVal string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "Title", "slug", "tags", "seo", "writer", "ArticleText",
		"isActive", "Likes", "Views", "created_at",
	}).AddRow(id, title, slugVal, "فقه", "", "ادارہ", "متن", true, 0, 0, time.Now())
}

func expectConflicts(mock sqlmock.Sqlmock, base string, excludeID int64, slugs ...string) {
	rows := sqlmock.NewRows([]string{"slug"})
	for _, s := range slugs {
		rows.AddRow(s)
	}
	mock.ExpectQuery(regexp.QuoteMeta("SELECT slug FROM Article WHERE (slug = ? OR slug LIKE CONCAT(?, '-%')) AND id <> ?")).
		WithArgs(base, base, excludeID).
		WillReturnRows(rows)
}

func do(c *Comp, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	c.Routes().ServeHTTP(rec, req)
	return rec
}

func TestCreate_ResolvesSlugFromTitle(t *testing.T) {
	c, mock := newComp(t)

	expectConflicts(mock, "نماز-کے-مسائل", 0)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO Article")).
		WithArgs("نماز کے مسائل", "نماز-کے-مسائل", "فقه", "", "ادارہ", "متن").
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectQuery("SELECT id, Title, slug").
		WithArgs(int64(11)).
		WillReturnRows(articleRows(11, "نماز کے مسائل", "نماز-کے-مسائل"))

	body := `{"Title":"نماز کے مسائل","tags":"فقه","writer":"ادارہ","ArticleText":"متن"}`
	rec := do(c, http.MethodPost, "/", body)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestCreate_RetriesOnceOnSlugRace(t *testing.T) {
	c, mock := newComp(t)

	// First resolve sees a free base, but a racing writer lands first.
	expectConflicts(mock, "zakat", 0)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO Article")).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	// Retry resolves from the losing slug and succeeds.
	expectConflicts(mock, "zakat", 0, "zakat")
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO Article")).
		WithArgs("zakat", "zakat-2", "", "", "", "").
		WillReturnResult(sqlmock.NewResult(12, 1))
	mock.ExpectQuery("SELECT id, Title, slug").
		WithArgs(int64(12)).
		WillReturnRows(articleRows(12, "zakat", "zakat-2"))

	rec := do(c, http.MethodPost, "/", `{"Title":"zakat"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestCreate_SecondRaceIsConflict(t *testing.T) {
	c, mock := newComp(t)

	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
	expectConflicts(mock, "zakat", 0)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO Article")).WillReturnError(dup)
	expectConflicts(mock, "zakat", 0, "zakat")
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO Article")).WillReturnError(dup)

	rec := do(c, http.MethodPost, "/", `{"Title":"zakat"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCreate_MissingTitle(t *testing.T) {
	c, _ := newComp(t)
	rec := do(c, http.MethodPost, "/", `{"tags":"فقه"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestUpdate_EmptyBodyRejected(t *testing.T) {
	c, _ := newComp(t)
	rec := do(c, http.MethodPatch, "/5", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
}

func TestUpdate_TitleReResolvesSlugExcludingSelf(t *testing.T) {
	c, mock := newComp(t)

	expectConflicts(mock, "new-title", 5)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE Article SET Title = ?, slug = ? WHERE id = ?")).
		WithArgs("new title", "new-title", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT id, Title, slug").
		WithArgs(int64(5)).
		WillReturnRows(articleRows(5, "new title", "new-title"))

	rec := do(c, http.MethodPatch, "/5", `{"Title":"new title"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestDelete_SoftDeletes(t *testing.T) {
	c, mock := newComp(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE Article SET isActive = 0 WHERE id = ?")).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := do(c, http.MethodDelete, "/5", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestDelete_MissingIs404(t *testing.T) {
	c, mock := newComp(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE Article SET isActive = 0 WHERE id = ?")).
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	rec := do(c, http.MethodDelete, "/99", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestView_SetsAnonCookieAndCounts(t *testing.T) {
	c, mock := newComp(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM Article WHERE id = ? AND isActive = 1")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectExec(regexp.QuoteMeta("INSERT IGNORE INTO article_views")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM article_likes")).
		WillReturnRows(sqlmock.NewRows([]string{"c"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM article_views")).
		WillReturnRows(sqlmock.NewRows([]string{"c"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE Article SET Likes = ?, Views = ?")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := do(c, http.MethodPost, "/7/view", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if len(rec.Result().Cookies()) != 1 {
		t.Error("anon cookie not set for first-time visitor")
	}

	var env struct {
		Success bool               `json:"success"`
		Data    counter.ViewResult `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if !env.Data.Counted || env.Data.Views != 1 {
		t.Fatalf("data %+v", env.Data)
	}
}

func TestView_MissingArticleWritesNothing(t *testing.T) {
	c, mock := newComp(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM Article WHERE id = ? AND isActive = 1")).
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	rec := do(c, http.MethodPost, "/404/view", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status %d", rec.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestIDParam_Invalid(t *testing.T) {
	c, _ := newComp(t)
	rec := do(c, http.MethodGet, "/abc", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d", rec.Code)
	}
}
