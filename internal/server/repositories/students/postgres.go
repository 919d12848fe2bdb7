package students

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"classtrack-server/internal/common"
	"classtrack-server/internal/dbx"
	"classtrack-server/internal/server/models"
)

const studentColumns = "id, name, level, class_day, email, phone, birthday, notes, created_at"

// PostgresRepository implements student storage over a dbx.DBTX (*sql.DB or
// *sql.Tx). The notes column holds the whole note sequence as one jsonb
// document, rewritten wholesale on every note mutation.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStudent(row rowScanner) (*models.Student, error) {
	s := &models.Student{}
	var notes []byte
	if err := row.Scan(&s.ID, &s.Name, &s.Level, &s.ClassDay, &s.Email, &s.Phone, &s.Birthday, &notes, &s.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(notes, &s.Notes); err != nil {
		return nil, fmt.Errorf("notes decode error: %w", err)
	}
	if s.Notes == nil {
		s.Notes = []models.Note{}
	}
	return s, nil
}

func marshalNotes(notes []models.Note) ([]byte, error) {
	if notes == nil {
		notes = []models.Note{}
	}
	return json.Marshal(notes)
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Create(ctx context.Context, student *models.Student) (*models.Student, error) {
	query := `
		INSERT INTO students (name, level, class_day, email, phone, birthday, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + studentColumns

	notes, err := marshalNotes(student.Notes)
	if err != nil {
		return nil, fmt.Errorf("notes encode error: %w", err)
	}

	row := r.db.QueryRowContext(ctx, query,
		student.Name, student.Level, student.ClassDay, student.Email, student.Phone, student.Birthday, notes)

	created, err := scanStudent(row)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return created, nil
}

func (r *PostgresRepository) GetForUpdate(ctx context.Context, id string) (*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1 FOR UPDATE`

	s, err := scanStudent(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id string, upd *models.StudentUpdate) (*models.Student, error) {
	query := `
		UPDATE students SET
			name = COALESCE($2, name),
			level = COALESCE($3, level),
			class_day = COALESCE($4, class_day),
			email = COALESCE($5, email),
			phone = COALESCE($6, phone),
			birthday = COALESCE($7, birthday)
		WHERE id = $1
		RETURNING ` + studentColumns

	row := r.db.QueryRowContext(ctx, query, id,
		upd.Name, upd.Level, upd.ClassDay, upd.Email, upd.Phone, upd.Birthday)

	s, err := scanStudent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) (*models.Student, error) {
	query := `DELETE FROM students WHERE id = $1 RETURNING ` + studentColumns

	s, err := scanStudent(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) SetNotes(ctx context.Context, id string, notes []models.Note) (*models.Student, error) {
	query := `
		UPDATE students SET notes = $2
		WHERE id = $1
		RETURNING ` + studentColumns

	encoded, err := marshalNotes(notes)
	if err != nil {
		return nil, fmt.Errorf("notes encode error: %w", err)
	}

	s, err := scanStudent(r.db.QueryRowContext(ctx, query, id, encoded))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}
