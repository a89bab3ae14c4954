// components/article/model.go
//
// Article row and request/response shapes.
//
// Column names mirror the live schema, which predates this server and
// mixes naming styles (Title vs. slug vs. ArticleText).  The struct tags
// absorb that so the rest of the code uses Go names.

package article

import "time"

// Article is one row of the Article table.  CoverImage is stored as a blob
// and loaded only by the cover endpoint, never by list or detail queries.
type Article struct {
	ID       int64  `db:"id"          json:"id"`
	Title    string `db:"Title"       json:"Title"`
	Slug     string `db:"slug"        json:"slug"`
	Tags     string `db:"tags"        json:"tags"`
	SEO      string `db:"seo"         json:"seo"`
	Writer   string `db:"writer"      json:"writer"`
	Text     string `db:"ArticleText" json:"ArticleText"`
	IsActive bool   `db:"isActive"    json:"isActive"`
	Likes    int64  `db:"Likes"       json:"Likes"`
	Views    int64  `db:"Views"       json:"Views"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// createRequest is the POST body.  Slug is optional; when empty the title
// seeds the slug.
type createRequest struct {
	Title  string `json:"Title"  validate:"required,min=1"`
	Slug   string `json:"slug"`
	Tags   string `json:"tags"`
	SEO    string `json:"seo"`
	Writer string `json:"writer"`
	Text   string `json:"ArticleText"`
}

// updateRequest is the PATCH body.  Pointer fields distinguish "absent"
// from "set to empty"; an all-nil request is a validation error.
type updateRequest struct {
	Title  *string `json:"Title"`
	Slug   *string `json:"slug"`
	Tags   *string `json:"tags"`
	SEO    *string `json:"seo"`
	Writer *string `json:"writer"`
	Text   *string `json:"ArticleText"`
	Active *bool   `json:"isActive"`
}

func (u updateRequest) empty() bool {
	return u.Title == nil && u.Slug == nil && u.Tags == nil &&
		u.SEO == nil && u.Writer == nil && u.Text == nil && u.Active == nil
}
