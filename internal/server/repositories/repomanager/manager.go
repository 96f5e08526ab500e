package repomanager

import (
	"context"
	"database/sql"

	"github.com/solvexa/authgate/internal/dbx"
	"github.com/solvexa/authgate/internal/server/repositories/sessions"
	"github.com/solvexa/authgate/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Sessions(db dbx.DBTX) sessions.Repository
}
