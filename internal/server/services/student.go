package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"classtrack-server/internal/common"
	"classtrack-server/internal/dbx"
	"classtrack-server/internal/server/models"
	"classtrack-server/internal/server/repositories/repomanager"
)

// StudentService provides CRUD over student records and the lifecycle of
// their embedded note sequence. Note mutations run inside a transaction with
// the student row locked, so concurrent edits on the same student serialize
// instead of losing updates.
type StudentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewStudentService constructs a StudentService bound to the given database.
func NewStudentService(db *sql.DB, m repomanager.RepositoryManager) *StudentService {
	return &StudentService{db: db, repomanager: m}
}

// checkID rejects identifiers that cannot possibly match a stored record.
// A malformed id is reported as NotFound on purpose: the API contract promises
// 404 for any id that does not designate an existing record.
func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return common.ErrorNotFound
	}
	return nil
}

func validateStudent(s *models.Student) error {
	switch {
	case s.Name == "":
		return common.NewValidationError("Student must have a name")
	case s.Level == "":
		return common.NewValidationError("Student must have a level")
	case s.ClassDay == "":
		return common.NewValidationError("Student must have a class day")
	case s.Email == "":
		return common.NewValidationError("Student must have an email")
	case s.Phone == "":
		return common.NewValidationError("Student must have a phone")
	case s.Birthday == "":
		return common.NewValidationError("Student must have a birthday")
	}
	return nil
}

func validateNote(n *models.Note) error {
	switch {
	case n.Date == "":
		return common.NewValidationError("Note must have a date")
	case n.Topic == "":
		return common.NewValidationError("Note must have a topic")
	}
	return nil
}

// List returns all students.
func (s *StudentService) List(ctx context.Context) ([]*models.Student, error) {
	result, err := s.repomanager.Students(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing students: %w", err)
	}
	if result == nil {
		result = []*models.Student{}
	}
	return result, nil
}

// Create validates required fields and inserts a new student with an empty
// note sequence.
func (s *StudentService) Create(ctx context.Context, student *models.Student) (*models.Student, error) {
	if err := validateStudent(student); err != nil {
		return nil, err
	}
	student.Notes = []models.Note{}

	created, err := s.repomanager.Students(s.db).Create(ctx, student)
	if err != nil {
		return nil, fmt.Errorf("error creating student: %w", err)
	}
	return created, nil
}

// Update merges the supplied fields onto the stored record; unspecified
// fields are retained.
func (s *StudentService) Update(ctx context.Context, id string, upd *models.StudentUpdate) (*models.Student, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	return s.repomanager.Students(s.db).Update(ctx, id, upd)
}

// Delete removes a student and returns its prior state.
func (s *StudentService) Delete(ctx context.Context, id string) (*models.Student, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	return s.repomanager.Students(s.db).Delete(ctx, id)
}

// AddNote appends a note with a fresh identifier to the end of the student's
// note sequence. Empty comments default to models.DefaultNoteComments.
func (s *StudentService) AddNote(ctx context.Context, studentID string, note models.Note) (*models.Student, error) {
	if err := checkID(studentID); err != nil {
		return nil, err
	}
	if err := validateNote(&note); err != nil {
		return nil, err
	}
	if note.Comments == "" {
		note.Comments = models.DefaultNoteComments
	}
	note.ID = uuid.NewString()

	return s.withLockedStudent(ctx, studentID, func(student *models.Student) ([]models.Note, error) {
		return append(student.Notes, note), nil
	})
}

// UpdateNote replaces the date/topic/comments of the note matching noteID,
// keeping its position and identifier. A noteID not present in the sequence
// yields common.ErrNoteNotFound.
func (s *StudentService) UpdateNote(ctx context.Context, studentID, noteID string, note models.Note) (*models.Student, error) {
	if err := checkID(studentID); err != nil {
		return nil, err
	}
	if err := validateNote(&note); err != nil {
		return nil, err
	}
	if note.Comments == "" {
		note.Comments = models.DefaultNoteComments
	}

	return s.withLockedStudent(ctx, studentID, func(student *models.Student) ([]models.Note, error) {
		for i := range student.Notes {
			if student.Notes[i].ID == noteID {
				note.ID = noteID
				student.Notes[i] = note
				return student.Notes, nil
			}
		}
		return nil, common.ErrNoteNotFound
	})
}

// DeleteNote removes the note matching noteID from the sequence. A noteID
// with no match is a no-op, not an error.
func (s *StudentService) DeleteNote(ctx context.Context, studentID, noteID string) (*models.Student, error) {
	if err := checkID(studentID); err != nil {
		return nil, err
	}

	return s.withLockedStudent(ctx, studentID, func(student *models.Student) ([]models.Note, error) {
		kept := student.Notes[:0]
		for _, n := range student.Notes {
			if n.ID != noteID {
				kept = append(kept, n)
			}
		}
		return kept, nil
	})
}

// withLockedStudent loads the student with its row locked, lets fn rewrite the
// note sequence, and saves the whole sequence back before committing.
func (s *StudentService) withLockedStudent(ctx context.Context, studentID string, fn func(*models.Student) ([]models.Note, error)) (*models.Student, error) {
	var updated *models.Student

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Students(tx)

		student, err := repo.GetForUpdate(ctx, studentID)
		if err != nil {
			return err
		}

		notes, err := fn(student)
		if err != nil {
			return err
		}

		updated, err = repo.SetNotes(ctx, studentID, notes)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
