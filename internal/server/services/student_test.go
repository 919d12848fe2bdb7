package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"classtrack-server/internal/common"
	"classtrack-server/internal/server/models"
)

// fakeStudentsRepo keeps a single student in memory and mimics the
// load-then-rewrite note semantics of the real repository.
type fakeStudentsRepo struct {
	student *models.Student

	listErr   error
	createErr error

	setNotesCalls int
}

func (f *fakeStudentsRepo) List(ctx context.Context) ([]*models.Student, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if f.student == nil {
		return nil, nil
	}
	return []*models.Student{f.student}, nil
}

func (f *fakeStudentsRepo) Create(ctx context.Context, s *models.Student) (*models.Student, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	s.ID = uuid.NewString()
	f.student = s
	return s, nil
}

func (f *fakeStudentsRepo) GetForUpdate(ctx context.Context, id string) (*models.Student, error) {
	if f.student == nil || f.student.ID != id {
		return nil, common.ErrorNotFound
	}
	cp := *f.student
	cp.Notes = append([]models.Note{}, f.student.Notes...)
	return &cp, nil
}

func (f *fakeStudentsRepo) Update(ctx context.Context, id string, upd *models.StudentUpdate) (*models.Student, error) {
	if f.student == nil || f.student.ID != id {
		return nil, common.ErrorNotFound
	}
	if upd.Name != nil {
		f.student.Name = *upd.Name
	}
	if upd.Level != nil {
		f.student.Level = *upd.Level
	}
	return f.student, nil
}

func (f *fakeStudentsRepo) Delete(ctx context.Context, id string) (*models.Student, error) {
	if f.student == nil || f.student.ID != id {
		return nil, common.ErrorNotFound
	}
	s := f.student
	f.student = nil
	return s, nil
}

func (f *fakeStudentsRepo) SetNotes(ctx context.Context, id string, notes []models.Note) (*models.Student, error) {
	if f.student == nil || f.student.ID != id {
		return nil, common.ErrorNotFound
	}
	f.setNotesCalls++
	f.student.Notes = notes
	return f.student, nil
}

func newStudentService(t *testing.T, repo *fakeStudentsRepo) (*StudentService, func()) {
	t.Helper()
	db, mock := newSQLMockDB(t)
	// every note mutation runs in its own committed transaction
	for i := 0; i < 8; i++ {
		mock.ExpectBegin()
		mock.ExpectCommit()
	}
	rm := &fakeRepoManager{u: &fakeUsersRepo{}, rt: &fakeTokensRepo{}, st: repo}
	return NewStudentService(db, rm), func() { db.Close() }
}

func seededStudent() *models.Student {
	return &models.Student{
		ID:       uuid.NewString(),
		Name:     "Ana",
		Level:    "B1",
		ClassDay: "Mon",
		Email:    "ana@x.com",
		Phone:    "555",
		Birthday: "2000-01-01",
		Notes:    []models.Note{},
	}
}

func TestCreate_MissingFieldFails(t *testing.T) {
	repo := &fakeStudentsRepo{}
	s, closeDB := newStudentService(t, repo)
	defer closeDB()

	_, err := s.Create(context.Background(), &models.Student{Name: "Ana"})
	if !common.IsValidationError(err) {
		t.Fatalf("want ValidationError, got %v", err)
	}
	if repo.student != nil {
		t.Fatal("invalid student must not be persisted")
	}
}

func TestCreate_StartsWithEmptyNotes(t *testing.T) {
	repo := &fakeStudentsRepo{}
	s, closeDB := newStudentService(t, repo)
	defer closeDB()

	created, err := s.Create(context.Background(), seededStudent())
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if created.ID == "" || len(created.Notes) != 0 {
		t.Fatalf("unexpected student: %+v", created)
	}
}

func TestUpdateAndDelete_MalformedIDIsNotFound(t *testing.T) {
	repo := &fakeStudentsRepo{student: seededStudent()}
	s, closeDB := newStudentService(t, repo)
	defer closeDB()

	if _, err := s.Update(context.Background(), "not-a-uuid", &models.StudentUpdate{}); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("Update: want ErrorNotFound, got %v", err)
	}
	if _, err := s.Delete(context.Background(), "not-a-uuid"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("Delete: want ErrorNotFound, got %v", err)
	}
}

func TestAddNote_DefaultsCommentsAndAppends(t *testing.T) {
	student := seededStudent()
	repo := &fakeStudentsRepo{student: student}
	s, closeDB := newStudentService(t, repo)
	defer closeDB()

	got, err := s.AddNote(context.Background(), student.ID, models.Note{Date: "2024-01-01", Topic: "grammar"})
	if err != nil {
		t.Fatalf("AddNote error: %v", err)
	}
	if len(got.Notes) != 1 {
		t.Fatalf("expected 1 note, got %d", len(got.Notes))
	}
	n := got.Notes[0]
	if n.ID == "" {
		t.Fatal("note must get a generated id")
	}
	if n.Comments != models.DefaultNoteComments {
		t.Fatalf("expected default comments, got %q", n.Comments)
	}
}

func TestAddNote_MissingTopicFails(t *testing.T) {
	student := seededStudent()
	repo := &fakeStudentsRepo{student: student}
	s, closeDB := newStudentService(t, repo)
	defer closeDB()

	_, err := s.AddNote(context.Background(), student.ID, models.Note{Date: "2024-01-01"})
	if !common.IsValidationError(err) {
		t.Fatalf("want ValidationError, got %v", err)
	}
}

func TestAddNote_UnknownStudent(t *testing.T) {
	repo := &fakeStudentsRepo{student: seededStudent()}
	s, closeDB := newStudentService(t, repo)
	defer closeDB()

	_, err := s.AddNote(context.Background(), uuid.NewString(), models.Note{Date: "2024-01-01", Topic: "grammar"})
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestUpdateNote_PreservesIDAndPosition(t *testing.T) {
	student := seededStudent()
	student.Notes = []models.Note{
		{ID: "n-1", Date: "2024-01-01", Topic: "grammar", Comments: "No comments"},
		{ID: "n-2", Date: "2024-01-08", Topic: "vocab", Comments: "No comments"},
	}
	repo := &fakeStudentsRepo{student: student}
	s, closeDB := newStudentService(t, repo)
	defer closeDB()

	got, err := s.UpdateNote(context.Background(), student.ID, "n-1", models.Note{Date: "2024-01-02", Topic: "reading"})
	if err != nil {
		t.Fatalf("UpdateNote error: %v", err)
	}
	if len(got.Notes) != 2 {
		t.Fatalf("note count changed: %d", len(got.Notes))
	}
	if got.Notes[0].ID != "n-1" {
		t.Fatalf("note id must survive the edit, got %q", got.Notes[0].ID)
	}
	if got.Notes[0].Topic != "reading" || got.Notes[0].Date != "2024-01-02" {
		t.Fatalf("fields not replaced: %+v", got.Notes[0])
	}
	if got.Notes[1].ID != "n-2" {
		t.Fatalf("other notes must be untouched: %+v", got.Notes[1])
	}
}

func TestUpdateNote_UnknownNoteLeavesStudentUnchanged(t *testing.T) {
	student := seededStudent()
	student.Notes = []models.Note{{ID: "n-1", Date: "2024-01-01", Topic: "grammar", Comments: "No comments"}}
	repo := &fakeStudentsRepo{student: student}
	s, closeDB := newStudentService(t, repo)
	defer closeDB()

	_, err := s.UpdateNote(context.Background(), student.ID, "n-missing", models.Note{Date: "x", Topic: "y"})
	if !errors.Is(err, common.ErrNoteNotFound) {
		t.Fatalf("want ErrNoteNotFound, got %v", err)
	}
	if repo.setNotesCalls != 0 {
		t.Fatal("notes must not be rewritten when the note does not exist")
	}
	if len(repo.student.Notes) != 1 || repo.student.Notes[0].Topic != "grammar" {
		t.Fatalf("student changed: %+v", repo.student.Notes)
	}
}

func TestDeleteNote_UnknownNoteIsNoop(t *testing.T) {
	student := seededStudent()
	student.Notes = []models.Note{{ID: "n-1", Date: "2024-01-01", Topic: "grammar", Comments: "No comments"}}
	repo := &fakeStudentsRepo{student: student}
	s, closeDB := newStudentService(t, repo)
	defer closeDB()

	got, err := s.DeleteNote(context.Background(), student.ID, "n-missing")
	if err != nil {
		t.Fatalf("DeleteNote error: %v", err)
	}
	if len(got.Notes) != 1 {
		t.Fatalf("unexpected notes: %+v", got.Notes)
	}
}

func TestNoteLifecycle_RoundTrip(t *testing.T) {
	student := seededStudent()
	repo := &fakeStudentsRepo{student: student}
	s, closeDB := newStudentService(t, repo)
	defer closeDB()

	ctx := context.Background()

	got, err := s.AddNote(ctx, student.ID, models.Note{Date: "2024-01-01", Topic: "grammar"})
	if err != nil {
		t.Fatalf("AddNote error: %v", err)
	}
	noteID := got.Notes[0].ID

	if _, err := s.UpdateNote(ctx, student.ID, noteID, models.Note{Date: "2024-01-02", Topic: "reading", Comments: "good"}); err != nil {
		t.Fatalf("UpdateNote error: %v", err)
	}

	got, err = s.DeleteNote(ctx, student.ID, noteID)
	if err != nil {
		t.Fatalf("DeleteNote error: %v", err)
	}
	if len(got.Notes) != 0 {
		t.Fatalf("note sequence must be empty after delete, got %+v", got.Notes)
	}
}

func TestList_EmptyIsNotNil(t *testing.T) {
	repo := &fakeStudentsRepo{}
	s, closeDB := newStudentService(t, repo)
	defer closeDB()

	got, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}
