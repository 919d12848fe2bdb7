package models

import "time"

// DefaultNoteComments is stored when a note is created without comments.
const DefaultNoteComments = "No comments"

// Note is a dated annotation embedded in a student record. Its ID is unique
// within the owning student's note sequence and stays stable across edits.
type Note struct {
	ID       string `json:"id"`
	Date     string `json:"date"`
	Topic    string `json:"topic"`
	Comments string `json:"comments"`
}

// Student is a student record owning an ordered sequence of notes. The notes
// sequence is persisted as a single document value; insertion order is the
// display order.
type Student struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Level     string    `json:"level"`
	ClassDay  string    `json:"classDay"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Birthday  string    `json:"birthday"`
	Notes     []Note    `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
}

// StudentUpdate carries a partial update: nil fields are left unchanged.
type StudentUpdate struct {
	Name     *string `json:"name"`
	Level    *string `json:"level"`
	ClassDay *string `json:"classDay"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Birthday *string `json:"birthday"`
}
