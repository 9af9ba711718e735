// Package repomanager vends repository implementations bound to a DBTX, so
// services can run the same repository code on a plain connection or inside
// a transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/rashid4567/recruitiq/internal/dbx"
	"github.com/rashid4567/recruitiq/internal/server/repositories/profiles"
	"github.com/rashid4567/recruitiq/internal/server/repositories/refreshtokens"
	"github.com/rashid4567/recruitiq/internal/server/repositories/users"
)

// RepositoryManager constructs repositories over the given DBTX and owns
// schema migrations.
type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Profiles(db dbx.DBTX) profiles.Repository

	RunMigrations(ctx context.Context, db *sql.DB) error
}
