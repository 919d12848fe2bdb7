package repomanager

import (
	"context"
	"database/sql"

	"classtrack-server/internal/dbx"
	"classtrack-server/internal/server/repositories/registertokens"
	"classtrack-server/internal/server/repositories/students"
	"classtrack-server/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a specific DBTX, so the same
// repository code runs against *sql.DB or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RegisterTokens(db dbx.DBTX) registertokens.Repository
	Students(db dbx.DBTX) students.Repository
}
