// components/fatwa/fatwa_test.go

package fatwa

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

func newComp(t *testing.T) (*Comp, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { raw.Close() })
	return New(NewRepo(sqlx.NewDb(raw, "sqlmock"))), mock
}

func fatwaRows(ids ...int64) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "Title", "slug", "detailquestion", "tafseel", "Answer", "muftisahab",
		"mozuwat", "questionername", "questionaremail", "tags", "status",
		"isActive", "Likes", "Views", "created_at",
	})
	for _, id := range ids {
		rows.AddRow(id, "سوال", "سوال", "تفصیل", "", "جواب", "مفتی صاحب",
			"", "", "", "فقه,روزه", "answered", true, 0, 5, time.Now())
	}
	return rows
}

func do(c *Comp, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	c.Routes().ServeHTTP(rec, req)
	return rec
}

func TestAsk_LandsPending(t *testing.T) {
	c, mock := newComp(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT slug FROM fatawa")).
		WithArgs("روزے-کا-مسئلہ", "روزے-کا-مسئلہ", int64(0)).
		WillReturnRows(sqlmock.NewRows([]string{"slug"}))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO fatawa")).
		WithArgs("روزے کا مسئلہ", "روزے-کا-مسئلہ", "تفصیل", "", "", "",
			"", "سائل", "", "", "pending").
		WillReturnResult(sqlmock.NewResult(31, 1))
	mock.ExpectQuery("SELECT id, Title, slug").
		WithArgs(int64(31)).
		WillReturnRows(fatwaRows(31))

	body := `{"Title":"روزے کا مسئلہ","detailquestion":"تفصیل","questionername":"سائل"}`
	rec := do(c, http.MethodPost, "/ask", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestAsk_RejectsBadEmail(t *testing.T) {
	c, _ := newComp(t)
	rec := do(c, http.MethodPost, "/ask", `{"Title":"a","detailquestion":"b","questionaremail":"not-an-email"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestByTag_ExactHit(t *testing.T) {
	c, mock := newComp(t)

	// Exact count and page; the loose strategy must never run.
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM fatawa WHERE CONCAT(','")).
		WillReturnRows(sqlmock.NewRows([]string{"c"}).AddRow(2))
	mock.ExpectQuery(regexp.QuoteMeta("CONCAT(',', REPLACE(REPLACE(IFNULL(tags, '')")).
		WillReturnRows(fatwaRows(1, 2))

	rec := do(c, http.MethodGet, "/tag/فقه", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	var out struct {
		Success  bool   `json:"success"`
		Total    int64  `json:"total"`
		Count    int    `json:"count"`
		Strategy string `json:"strategy"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Strategy != "exact" || out.Total != 2 || out.Count != 2 {
		t.Fatalf("out %+v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestByTag_LooseFallbackOwnsTheTotal(t *testing.T) {
	c, mock := newComp(t)

	// Exact pass: a nonzero count can coexist with an empty page only when
	// strategies disagree; here both are empty so the fallback runs.
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM fatawa WHERE CONCAT(','")).
		WillReturnRows(sqlmock.NewRows([]string{"c"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta("CONCAT(',', REPLACE(REPLACE(IFNULL(tags, '')")).
		WillReturnRows(fatwaRows())

	// Loose pass produces the rows and the reported total.
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM fatawa WHERE IFNULL(tags, '') LIKE ?")).
		WillReturnRows(sqlmock.NewRows([]string{"c"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE IFNULL(tags, '') LIKE ?")).
		WillReturnRows(fatwaRows(3))

	rec := do(c, http.MethodGet, "/tag/فقهيات", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	var out struct {
		Total    int64  `json:"total"`
		Count    int    `json:"count"`
		Strategy string `json:"strategy"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Strategy != "loose" || out.Total != 1 || out.Count != 1 {
		t.Fatalf("out %+v", out)
	}
}

func TestByTag_CommaListMatchesAnyToken(t *testing.T) {
	c, mock := newComp(t)

	// Two tokens, one OR group; a row tagged only "فقه" must satisfy the
	// first pattern.  Default filters and most-viewed ordering apply.
	mock.ExpectQuery(regexp.QuoteMeta("LIKE ? OR CONCAT(','")).
		WithArgs("%,فقه,%", "%,متفرقات,%", "answered", "1").
		WillReturnRows(sqlmock.NewRows([]string{"c"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY Views DESC, id DESC")).
		WithArgs("%,فقه,%", "%,متفرقات,%", "answered", "1", 50, 0).
		WillReturnRows(fatwaRows(7))

	rec := do(c, http.MethodGet, "/by-tag?tag=فقه,متفرقات", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	var out struct {
		Strategy string `json:"strategy"`
		Count    int    `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Strategy != "exact" || out.Count != 1 {
		t.Fatalf("out %+v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestView_IncrementsAndReturnsTotal(t *testing.T) {
	c, mock := newComp(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE fatawa SET Views = Views + 1 WHERE id = ?")).
		WithArgs(int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT Views FROM fatawa WHERE id = ?")).
		WithArgs(int64(8)).
		WillReturnRows(sqlmock.NewRows([]string{"Views"}).AddRow(42))

	rec := do(c, http.MethodPost, "/8/view", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	var env struct {
		Data struct {
			ID    int64 `json:"id"`
			Views int64 `json:"Views"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if env.Data.ID != 8 || env.Data.Views != 42 {
		t.Fatalf("data %+v", env.Data)
	}
}

func TestView_MissingWritesNothing(t *testing.T) {
	c, mock := newComp(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE fatawa SET Views = Views + 1 WHERE id = ?")).
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	rec := do(c, http.MethodPost, "/99/view", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status %d", rec.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestAnswer_PendingOnly(t *testing.T) {
	c, mock := newComp(t)

	mock.ExpectExec(regexp.QuoteMeta("status = 'answered'")).
		WithArgs("جواب", "مفتی صاحب", "", "فقه", int64(31)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT id, Title, slug").
		WithArgs(int64(31)).
		WillReturnRows(fatwaRows(31))

	body := `{"Answer":"جواب","muftisahab":"مفتی صاحب","tags":"فقه"}`
	rec := do(c, http.MethodPost, "/31/answer", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAnswer_AlreadyAnsweredIs404(t *testing.T) {
	c, mock := newComp(t)

	mock.ExpectExec(regexp.QuoteMeta("status = 'answered'")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	rec := do(c, http.MethodPost, "/31/answer", `{"Answer":"جواب"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestSearch_RequiresTerm(t *testing.T) {
	c, _ := newComp(t)
	rec := do(c, http.MethodGet, "/search", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestSearch_CapsLimit(t *testing.T) {
	c, mock := newComp(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM fatawa WHERE (Title LIKE ?")).
		WillReturnRows(sqlmock.NewRows([]string{"c"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY id DESC LIMIT ? OFFSET ?")).
		WithArgs("%روزه%", "%روزه%", "%روزه%", "%روزه%", "answered", "1", 200, 0).
		WillReturnRows(fatwaRows())

	rec := do(c, http.MethodGet, "/search?q=روزه&limit=1000", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
