package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/solvexa/authgate/internal/common"
	"github.com/solvexa/authgate/internal/dbx"
	"github.com/solvexa/authgate/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `user_id, username, email, password_hash, password_salt, google_id, access_token`

func (r *PostgresRepository) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var passwordHash, passwordSalt, googleID, accessToken sql.NullString

	err := row.Scan(&user.UserID, &user.Username, &user.Email,
		&passwordHash, &passwordSalt, &googleID, &accessToken)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	user.PasswordHash = passwordHash.String
	user.PasswordSalt = passwordSalt.String
	user.GoogleID = googleID.String
	user.AccessToken = accessToken.String
	return user, nil
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) FindByUserID(ctx context.Context, userID string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, userID))
}

func (r *PostgresRepository) FindByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE google_id = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, googleID))
}

func (r *PostgresRepository) IsEmailTaken(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`

	var taken bool
	if err := r.db.QueryRowContext(ctx, query, email).Scan(&taken); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return taken, nil
}

func (r *PostgresRepository) IsUsernameTaken(ctx context.Context, username string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`

	var taken bool
	if err := r.db.QueryRowContext(ctx, query, username).Scan(&taken); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return taken, nil
}

func (r *PostgresRepository) CreateLocal(ctx context.Context, username, email, passwordHash, passwordSalt string) (string, error) {
	query := `
		INSERT INTO users (user_id, username, email, password_hash, password_salt)
		VALUES ($1, $2, $3, $4, $5)
	`
	userID := uuid.NewString()
	if _, err := r.db.ExecContext(ctx, query, userID, username, email, passwordHash, passwordSalt); err != nil {
		return "", fmt.Errorf("db error: %w", err)
	}
	return userID, nil
}

func (r *PostgresRepository) CreateFederated(ctx context.Context, email, googleID string) (string, error) {
	query := `
		INSERT INTO users (user_id, username, email, google_id)
		VALUES ($1, $2, $3, $4)
	`
	userID := uuid.NewString()
	if _, err := r.db.ExecContext(ctx, query, userID, email, email, googleID); err != nil {
		return "", fmt.Errorf("db error: %w", err)
	}
	return userID, nil
}

func (r *PostgresRepository) SetAccessToken(ctx context.Context, userID, token string) error {
	query := `UPDATE users SET access_token = $2 WHERE user_id = $1`

	res, err := r.db.ExecContext(ctx, query, userID, token)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}
	return nil
}
