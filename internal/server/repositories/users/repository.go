// Package users provides the user directory: lookup, uniqueness guards, and
// the closed set of mutations the auth engine is allowed to perform.
package users

import (
	"context"

	"github.com/solvexa/authgate/internal/server/models"
)

// Repository is the persistence contract for user records. Lookups return
// common.ErrorNotFound when no record matches. There is no generic update or
// delete: all mutation goes through the named operations below so the
// directory's invariants stay closed.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByUserID(ctx context.Context, userID string) (*models.User, error)
	FindByGoogleID(ctx context.Context, googleID string) (*models.User, error)

	IsEmailTaken(ctx context.Context, email string) (bool, error)
	IsUsernameTaken(ctx context.Context, username string) (bool, error)

	// CreateLocal inserts a password-credentialed user and returns the new
	// user id (UUID).
	CreateLocal(ctx context.Context, username, email, passwordHash, passwordSalt string) (string, error)

	// CreateFederated inserts a provider-authenticated user; the username
	// defaults to the federated email.
	CreateFederated(ctx context.Context, email, googleID string) (string, error)

	// SetAccessToken overwrites the user's single current access token,
	// implicitly invalidating the previous one.
	SetAccessToken(ctx context.Context, userID, token string) error
}
