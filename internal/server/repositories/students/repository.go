// Package students declares the repository contract for student records and
// their embedded note sequence.
package students

import (
	"context"

	"classtrack-server/internal/server/models"
)

// Repository is the storage contract for the student directory. The note
// sequence is part of the student document: note mutations load the student,
// rewrite the sequence, and save it back via SetNotes.
type Repository interface {
	// List returns all students in creation order.
	List(ctx context.Context) ([]*models.Student, error)

	// Create inserts a new student and returns it with its generated id.
	Create(ctx context.Context, student *models.Student) (*models.Student, error)

	// GetForUpdate loads one student by id, locking the row for the duration
	// of the enclosing transaction. Returns common.ErrorNotFound when absent.
	GetForUpdate(ctx context.Context, id string) (*models.Student, error)

	// Update applies a partial update (nil fields untouched) and returns the
	// updated record, or common.ErrorNotFound.
	Update(ctx context.Context, id string, upd *models.StudentUpdate) (*models.Student, error)

	// Delete removes a student and returns its prior state, or
	// common.ErrorNotFound.
	Delete(ctx context.Context, id string) (*models.Student, error)

	// SetNotes replaces the whole note sequence of one student and returns
	// the updated record, or common.ErrorNotFound.
	SetNotes(ctx context.Context, id string, notes []models.Note) (*models.Student, error)
}
