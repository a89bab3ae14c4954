// components/fatwa/model.go
//
// Fatwa row and request shapes.  Column names follow the live `fatawa`
// table, whose spelling (detailquestion, questionaremail) predates this
// server and is load-bearing for the dashboard clients.

package fatwa

import "time"

// Status values for the answer workflow.
const (
	StatusPending  = "pending"
	StatusAnswered = "answered"
)

// Fatwa is one row of the fatawa table.
type Fatwa struct {
	ID              int64  `db:"id"              json:"id"`
	Title           string `db:"Title"           json:"Title"`
	Slug            string `db:"slug"            json:"slug"`
	DetailQuestion  string `db:"detailquestion"  json:"detailquestion"`
	Tafseel         string `db:"tafseel"         json:"tafseel"`
	Answer          string `db:"Answer"          json:"Answer"`
	MuftiSahab      string `db:"muftisahab"      json:"muftisahab"`
	Mozuwat         string `db:"mozuwat"         json:"mozuwat"`
	QuestionerName  string `db:"questionername"  json:"questionername"`
	QuestionerEmail string `db:"questionaremail" json:"questionaremail"`
	Tags            string `db:"tags"            json:"tags"`
	Status          string `db:"status"          json:"status"`
	IsActive        bool   `db:"isActive"        json:"isActive"`
	Likes           int64  `db:"Likes"           json:"Likes"`
	Views           int64  `db:"Views"           json:"Views"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// askRequest is the public question-intake body.  The row is created as
// pending and invisible to the public listing until answered.
type askRequest struct {
	Title           string `json:"Title"           validate:"required,min=1"`
	DetailQuestion  string `json:"detailquestion"  validate:"required,min=1"`
	QuestionerName  string `json:"questionername"`
	QuestionerEmail string `json:"questionaremail" validate:"omitempty,email"`
}

// createRequest is the dashboard create body; the row lands answered.
type createRequest struct {
	Title          string `json:"Title"  validate:"required,min=1"`
	Slug           string `json:"slug"`
	DetailQuestion string `json:"detailquestion"`
	Tafseel        string `json:"tafseel"`
	Answer         string `json:"Answer" validate:"required,min=1"`
	MuftiSahab     string `json:"muftisahab"`
	Mozuwat        string `json:"mozuwat"`
	Tags           string `json:"tags"`
}

// updateRequest is the PATCH body; nil means "leave unchanged".
type updateRequest struct {
	Title          *string `json:"Title"`
	Slug           *string `json:"slug"`
	DetailQuestion *string `json:"detailquestion"`
	Tafseel        *string `json:"tafseel"`
	Answer         *string `json:"Answer"`
	MuftiSahab     *string `json:"muftisahab"`
	Mozuwat        *string `json:"mozuwat"`
	Tags           *string `json:"tags"`
	Status         *string `json:"status"`
	Active         *bool   `json:"isActive"`
}

func (u updateRequest) empty() bool {
	return u.Title == nil && u.Slug == nil && u.DetailQuestion == nil &&
		u.Tafseel == nil && u.Answer == nil && u.MuftiSahab == nil &&
		u.Mozuwat == nil && u.Tags == nil && u.Status == nil && u.Active == nil
}

// answerRequest completes a pending question.
type answerRequest struct {
	Answer     string `json:"Answer"     validate:"required,min=1"`
	MuftiSahab string `json:"muftisahab"`
	Tafseel    string `json:"tafseel"`
	Tags       string `json:"tags"`
}
