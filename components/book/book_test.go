// components/book/book_test.go

package book

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

func bookRows(id int64, name, slugVal string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "BookName", "slug", "BookWriter", "BookDescription", "Tags",
		"BookCoverType", "isActive", "Views", "InsertedDate",
	}).AddRow(id, name, slugVal, "مصنف", "", "فقه", "image/jpeg", true, 0, time.Now())
}

func do(c *Comp, method, path, body, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	c.Routes().ServeHTTP(rec, req)
	return rec
}

func TestCreate_SlugFromBookName(t *testing.T) {
	c, mock := newComp(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT slug FROM Books")).
		WithArgs("بہشتی-زیور", "بہشتی-زیور", int64(0)).
		WillReturnRows(sqlmock.NewRows([]string{"slug"}))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO Books")).
		WithArgs("بہشتی زیور", "بہشتی-زیور", "مصنف", "", "فقه").
		WillReturnResult(sqlmock.NewResult(4, 1))
	mock.ExpectQuery("SELECT id, BookName, slug").
		WithArgs(int64(4)).
		WillReturnRows(bookRows(4, "بہشتی زیور", "بہشتی-زیور"))

	body := `{"BookName":"بہشتی زیور","BookWriter":"مصنف","Tags":"فقه"}`
	rec := do(c, http.MethodPost, "/", body, "application/json")
	if rec.Code != http.StatusCreated {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestCover_ServesStoredContentType(t *testing.T) {
	c, mock := newComp(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT BookCoverImg, IFNULL(BookCoverType, '') FROM Books")).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"BookCoverImg", "BookCoverType"}).
			AddRow([]byte{0xFF, 0xD8, 0xFF}, "image/jpeg"))

	rec := do(c, http.MethodGet, "/4/cover", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/jpeg" {
		t.Fatalf("content type %q", ct)
	}
}

func TestSetCover_StoresDeclaredType(t *testing.T) {
	c, mock := newComp(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE Books SET BookCoverImg = ?, BookCoverType = ? WHERE id = ?")).
		WithArgs([]byte("fakeimg"), "image/png", int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := do(c, http.MethodPut, "/4/cover", "fakeimg", "image/png")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
}

func TestSetCover_EmptyBodyRejected(t *testing.T) {
	c, _ := newComp(t)
	rec := do(c, http.MethodPut, "/4/cover", "", "image/png")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestView_ActiveOnly(t *testing.T) {
	c, mock := newComp(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE Books SET Views = Views + 1 WHERE id = ? AND isActive = 1")).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT Views FROM Books WHERE id = ?")).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"Views"}).AddRow(9))

	rec := do(c, http.MethodPost, "/4/view", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	var env struct {
		Data struct {
			Views int64 `json:"Views"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if env.Data.Views != 9 {
		t.Fatalf("views %d", env.Data.Views)
	}
}

func TestView_RetiredBookIs404(t *testing.T) {
	c, mock := newComp(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE Books SET Views = Views + 1 WHERE id = ? AND isActive = 1")).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	rec := do(c, http.MethodPost, "/4/view", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestUpdate_EmptyBodyRejected(t *testing.T) {
	c, _ := newComp(t)
	rec := do(c, http.MethodPatch, "/4", `{}`, "application/json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d", rec.Code)
	}
}
