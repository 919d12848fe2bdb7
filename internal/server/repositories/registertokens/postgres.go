package registertokens

import (
	"context"
	"fmt"

	"classtrack-server/internal/common"
	"classtrack-server/internal/dbx"
	"classtrack-server/internal/server/models"
)

// PostgresRepository implements token storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new admission token.
func (r *PostgresRepository) Create(ctx context.Context, token string) error {
	query := `
		INSERT INTO register_tokens (token)
		VALUES ($1)
	`
	if _, err := r.db.ExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Consume deletes the token row. When no row matches, the token was never
// provisioned or has already been consumed, and common.ErrorNotFound is returned.
func (r *PostgresRepository) Consume(ctx context.Context, token string) error {
	query := `
		DELETE FROM register_tokens
		WHERE token = $1
	`
	res, err := r.db.ExecContext(ctx, query, token)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// List returns all currently stored tokens.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.RegisterToken, error) {
	query := `
		SELECT token
		FROM register_tokens
		ORDER BY token
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.RegisterToken
	for rows.Next() {
		var item models.RegisterToken
		if err := rows.Scan(&item.Token); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
