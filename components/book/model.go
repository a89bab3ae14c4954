// components/book/model.go
//
// Book row and request shapes.  Column names follow the live Books table.

package book

import "time"

// Book is one row of the Books table.  The cover and PDF blobs are served
// by their own endpoints and never loaded by list or detail queries.
type Book struct {
	ID          int64  `db:"id"              json:"id"`
	Name        string `db:"BookName"        json:"BookName"`
	Slug        string `db:"slug"            json:"slug"`
	Writer      string `db:"BookWriter"      json:"BookWriter"`
	Description string `db:"BookDescription" json:"BookDescription"`
	Tags        string `db:"Tags"            json:"Tags"`
	CoverType   string `db:"BookCoverType"   json:"BookCoverType"`
	IsActive    bool   `db:"isActive"        json:"isActive"`
	Views       int64  `db:"Views"           json:"Views"`

	InsertedDate time.Time `db:"InsertedDate" json:"InsertedDate"`
}

// createRequest is the POST body; blobs are uploaded separately.
type createRequest struct {
	Name        string `json:"BookName" validate:"required,min=1"`
	Slug        string `json:"slug"`
	Writer      string `json:"BookWriter"`
	Description string `json:"BookDescription"`
	Tags        string `json:"Tags"`
}

// updateRequest is the PATCH body; nil means "leave unchanged".
type updateRequest struct {
	Name        *string `json:"BookName"`
	Slug        *string `json:"slug"`
	Writer      *string `json:"BookWriter"`
	Description *string `json:"BookDescription"`
	Tags        *string `json:"Tags"`
	Active      *bool   `json:"isActive"`
}

func (u updateRequest) empty() bool {
	return u.Name == nil && u.Slug == nil && u.Writer == nil &&
		u.Description == nil && u.Tags == nil && u.Active == nil
}
