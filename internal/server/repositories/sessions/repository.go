// Package sessions provides a PostgreSQL-backed store for active session
// tokens. The per-user cap and the eviction policy live in the auth engine;
// this store only answers count/list/insert/delete/exists.
package sessions

import (
	"context"

	"github.com/solvexa/authgate/internal/server/models"
)

// Repository is the persistence contract for session token records.
type Repository interface {
	// Count returns the number of stored session tokens for userID.
	Count(ctx context.Context, userID string) (int, error)

	// List returns the stored session tokens for userID in no particular
	// order.
	List(ctx context.Context, userID string) ([]models.SessionToken, error)

	// Insert stores a session token. The engine runs its cap check before
	// calling this.
	Insert(ctx context.Context, token *models.SessionToken) error

	// Delete removes a session token by its token string; deleting a token
	// that does not exist returns common.ErrorNotFound.
	Delete(ctx context.Context, token string) error

	// Exists reports whether the token string is currently stored.
	Exists(ctx context.Context, token string) (bool, error)
}
