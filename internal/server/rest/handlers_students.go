package rest

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"classtrack-server/internal/common"
	"classtrack-server/internal/server/models"
)

type noteRequest struct {
	Date     string `json:"date"`
	Topic    string `json:"topic"`
	Comments string `json:"comments"`
}

func studentNotFoundMsg(id string) string {
	return fmt.Sprintf("The student with the id %s does not exist", id)
}

func noteNotFoundMsg(id string) string {
	return fmt.Sprintf("The note with the id %s does not exist", id)
}

// ListStudents returns all students with a count. Public.
func (s *RestServer) ListStudents(c echo.Context) error {
	ctx := c.Request().Context()

	students, err := s.students.List(ctx)
	if err != nil {
		s.logger.Error(ctx, "list students failed", "error", err)
		return respondError(c, http.StatusInternalServerError, "Error retrieving all students")
	}

	return c.JSON(http.StatusOK, listResponse{Success: true, Count: len(students), Data: students})
}

// CreateStudent inserts a new student record.
func (s *RestServer) CreateStudent(c echo.Context) error {
	var student models.Student
	if err := c.Bind(&student); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request body")
	}

	ctx := c.Request().Context()

	created, err := s.students.Create(ctx, &student)
	if err != nil {
		var ve *common.ValidationError
		if errors.As(err, &ve) {
			return respondError(c, http.StatusBadRequest, ve.Message)
		}
		s.logger.Error(ctx, "create student failed", "error", err)
		return respondError(c, http.StatusInternalServerError, "Error creating student")
	}

	return respondData(c, http.StatusCreated, created)
}

// UpdateStudent merges the supplied fields onto an existing student.
func (s *RestServer) UpdateStudent(c echo.Context) error {
	id := c.Param("id")

	var upd models.StudentUpdate
	if err := c.Bind(&upd); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request body")
	}

	ctx := c.Request().Context()

	student, err := s.students.Update(ctx, id, &upd)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return respondError(c, http.StatusNotFound, studentNotFoundMsg(id))
		}
		s.logger.Error(ctx, "update student failed", "error", err)
		return respondError(c, http.StatusInternalServerError, "Error updating student")
	}

	return respondData(c, http.StatusOK, student)
}

// DeleteStudent removes a student and returns the deleted record.
func (s *RestServer) DeleteStudent(c echo.Context) error {
	id := c.Param("id")
	ctx := c.Request().Context()

	student, err := s.students.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return respondError(c, http.StatusNotFound, studentNotFoundMsg(id))
		}
		s.logger.Error(ctx, "delete student failed", "error", err)
		return respondError(c, http.StatusInternalServerError, "Error deleting student")
	}

	return respondData(c, http.StatusOK, student)
}

// AddNote appends a note to a student's record.
func (s *RestServer) AddNote(c echo.Context) error {
	id := c.Param("id")

	var req noteRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request body")
	}

	ctx := c.Request().Context()

	student, err := s.students.AddNote(ctx, id, models.Note{
		Date:     req.Date,
		Topic:    req.Topic,
		Comments: req.Comments,
	})
	if err != nil {
		var ve *common.ValidationError
		switch {
		case errors.As(err, &ve):
			return respondError(c, http.StatusBadRequest, ve.Message)
		case errors.Is(err, common.ErrorNotFound):
			return respondError(c, http.StatusNotFound, studentNotFoundMsg(id))
		default:
			s.logger.Error(ctx, "add note failed", "error", err)
			return respondError(c, http.StatusInternalServerError, "Error creating note")
		}
	}

	return respondData(c, http.StatusOK, student)
}

// UpdateNote replaces the fields of one note, keeping its id and position.
func (s *RestServer) UpdateNote(c echo.Context) error {
	studentID := c.Param("studentId")
	noteID := c.Param("noteId")

	var req noteRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request body")
	}

	ctx := c.Request().Context()

	student, err := s.students.UpdateNote(ctx, studentID, noteID, models.Note{
		Date:     req.Date,
		Topic:    req.Topic,
		Comments: req.Comments,
	})
	if err != nil {
		var ve *common.ValidationError
		switch {
		case errors.As(err, &ve):
			return respondError(c, http.StatusBadRequest, ve.Message)
		case errors.Is(err, common.ErrNoteNotFound):
			return respondError(c, http.StatusNotFound, noteNotFoundMsg(noteID))
		case errors.Is(err, common.ErrorNotFound):
			return respondError(c, http.StatusNotFound, studentNotFoundMsg(studentID))
		default:
			s.logger.Error(ctx, "update note failed", "error", err)
			return respondError(c, http.StatusInternalServerError, "Error updating note")
		}
	}

	return respondData(c, http.StatusOK, student)
}

// DeleteNote removes one note from a student's record. Deleting a note id
// that is not present succeeds and returns the unchanged student.
func (s *RestServer) DeleteNote(c echo.Context) error {
	studentID := c.Param("studentId")
	noteID := c.Param("noteId")
	ctx := c.Request().Context()

	student, err := s.students.DeleteNote(ctx, studentID, noteID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return respondError(c, http.StatusNotFound, studentNotFoundMsg(studentID))
		}
		s.logger.Error(ctx, "delete note failed", "error", err)
		return respondError(c, http.StatusInternalServerError, "Error deleting note")
	}

	return respondData(c, http.StatusOK, student)
}
