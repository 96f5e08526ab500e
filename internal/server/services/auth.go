// Package services contains the server-side business logic. This file
// implements AuthService: registration, password login, session-token
// renewal, federated login, and the per-user session-token cap.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/solvexa/authgate/internal/common"
	"github.com/solvexa/authgate/internal/cryptox"
	"github.com/solvexa/authgate/internal/server/auth"
	"github.com/solvexa/authgate/internal/server/config"
	"github.com/solvexa/authgate/internal/server/google"
	"github.com/solvexa/authgate/internal/server/models"
	"github.com/solvexa/authgate/internal/server/repositories/repomanager"
)

const (
	// MaxSessionTokensPerUser caps live session tokens per account. When a
	// mint would exceed it, the token closest to expiring is evicted first.
	MaxSessionTokensPerUser = 5

	minUsernameLength = 6
	minPasswordLength = 12
)

// Test seams for the password KDF (260k PBKDF2 iterations per call).
var (
	hashPassword   = cryptox.HashPassword
	verifyPassword = cryptox.VerifyPassword
)

// AuthService orchestrates the user directory, the session store, the token
// codec, and the identity-provider exchange. It holds no per-request state;
// every use case is an independent call.
type AuthService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	codec                        *auth.Codec
	identity                     google.IdentityExchange
	accessTokenValidityDuration  time.Duration
	sessionTokenValidityDuration time.Duration
}

// NewAuthService constructs an AuthService using repositories and server
// config. identity may be nil when the provider client is not configured;
// FederatedLogin then fails closed.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, identity google.IdentityExchange, cfg *config.Config) *AuthService {
	return &AuthService{
		db:                           db,
		repomanager:                  m,
		codec:                        auth.NewCodec([]byte(cfg.SecretKey)),
		identity:                     identity,
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		sessionTokenValidityDuration: cfg.SessionTokenValidityDuration,
	}
}

// Codec exposes the token codec so the transport layer can verify bearer
// tokens with the same secret the engine mints with.
func (s *AuthService) Codec() *auth.Codec {
	return s.codec
}

// Register validates the input, enforces email/username uniqueness (in that
// order), hashes the password, and creates a local user. No tokens are
// issued on registration.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (string, error) {
	if len(username) < minUsernameLength {
		return "", fmt.Errorf("%w: username must be at least %d characters", common.ErrorInvalidInput, minUsernameLength)
	}
	if len(password) < minPasswordLength {
		return "", fmt.Errorf("%w: password must be at least %d characters", common.ErrorInvalidInput, minPasswordLength)
	}

	repo := s.repomanager.Users(s.db)

	taken, err := repo.IsEmailTaken(ctx, email)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorStoreUnavailable, err)
	}
	if taken {
		return "", fmt.Errorf("%w: email already taken", common.ErrorConflict)
	}

	taken, err = repo.IsUsernameTaken(ctx, username)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorStoreUnavailable, err)
	}
	if taken {
		return "", fmt.Errorf("%w: username already taken", common.ErrorConflict)
	}

	salt, hash := hashPassword(password)

	userID, err := repo.CreateLocal(ctx, username, email, hash, salt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorStoreUnavailable, err)
	}
	return userID, nil
}

// LoginWithPassword verifies the email/password pair and issues a fresh
// access and session token. An unknown email and a wrong password yield the
// same ErrorNotFound so callers cannot probe which accounts exist.
func (s *AuthService) LoginWithPassword(ctx context.Context, email, password string) (*models.AuthToken, error) {
	user, err := s.repomanager.Users(s.db).FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorStoreUnavailable, err)
	}

	if user.PasswordHash == "" || !verifyPassword(password, user.PasswordHash, user.PasswordSalt) {
		return nil, common.ErrorNotFound
	}

	return s.issueTokens(ctx, user.UserID)
}

// RenewSessionToken mints a fresh access token against an already
// signature-verified session token. The token must still be live in the
// store: eviction or revocation wins over a valid signature. The session
// token itself is not rotated.
func (s *AuthService) RenewSessionToken(ctx context.Context, authCtx *models.AuthContext) (*models.AuthToken, error) {
	live, err := s.repomanager.Sessions(s.db).Exists(ctx, authCtx.SessionToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorStoreUnavailable, err)
	}
	if !live {
		return nil, common.ErrorForbidden
	}

	user, err := s.repomanager.Users(s.db).FindByUserID(ctx, authCtx.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorStoreUnavailable, err)
	}

	accessToken, err := s.mintAccessToken(ctx, user.UserID)
	if err != nil {
		return nil, err
	}

	return &models.AuthToken{
		AccessToken:     accessToken,
		SessionToken:    authCtx.SessionToken,
		TokenType:       common.TokenTypeBearer,
		AccessExpiresIn: auth.TTLSeconds(time.Now().Add(s.accessTokenValidityDuration), time.Now()),
	}, nil
}

// FederatedLogin exchanges a provider authorization code for a profile,
// reconciles it with the directory (creating a federated user on first
// login), and issues tokens exactly as a password login does.
func (s *AuthService) FederatedLogin(ctx context.Context, code string) (*models.AuthToken, error) {
	if s.identity == nil {
		return nil, fmt.Errorf("%w: identity provider not configured", common.ErrorUpstreamAuth)
	}

	providerToken, err := s.identity.ExchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}

	profile, err := s.identity.FetchProfile(ctx, providerToken)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)

	user, err := repo.FindByGoogleID(ctx, profile.ID)
	if errors.Is(err, common.ErrorNotFound) {
		if _, err := repo.CreateFederated(ctx, profile.Email, profile.ID); err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrorStoreUnavailable, err)
		}
		// Re-read what we just wrote; a miss here means the store is lying.
		user, err = repo.FindByGoogleID(ctx, profile.ID)
		if err != nil {
			return nil, common.ErrorInternal
		}
	} else if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorStoreUnavailable, err)
	}

	return s.issueTokens(ctx, user.UserID)
}

// --- helpers below ---

func (s *AuthService) mintAccessToken(ctx context.Context, userID string) (string, error) {
	accessToken, err := s.codec.Mint(userID, s.accessTokenValidityDuration)
	if err != nil {
		return "", common.ErrorInternal
	}
	if err := s.repomanager.Users(s.db).SetAccessToken(ctx, userID, accessToken); err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorStoreUnavailable, err)
	}
	return accessToken, nil
}

func (s *AuthService) issueTokens(ctx context.Context, userID string) (*models.AuthToken, error) {
	accessToken, err := s.mintAccessToken(ctx, userID)
	if err != nil {
		return nil, err
	}

	sessionToken, err := s.codec.Mint(userID, s.sessionTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	record := &models.SessionToken{
		Token:     sessionToken,
		UserID:    userID,
		ExpiresAt: time.Now().Add(s.sessionTokenValidityDuration),
	}
	if err := s.admitSessionToken(ctx, record); err != nil {
		return nil, err
	}

	return &models.AuthToken{
		AccessToken:     accessToken,
		SessionToken:    sessionToken,
		TokenType:       common.TokenTypeBearer,
		AccessExpiresIn: auth.TTLSeconds(time.Now().Add(s.accessTokenValidityDuration), time.Now()),
	}, nil
}

// admitSessionToken inserts a session token, evicting the caller's session
// token with the least residual TTL first when the cap would be exceeded.
// The count→evict→insert sequence is deliberately not transactional: a burst
// of concurrent logins can transiently overshoot the cap, which the data
// model accepts.
func (s *AuthService) admitSessionToken(ctx context.Context, token *models.SessionToken) error {
	repo := s.repomanager.Sessions(s.db)

	count, err := repo.Count(ctx, token.UserID)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrorStoreUnavailable, err)
	}

	if count > MaxSessionTokensPerUser-1 {
		tokens, err := repo.List(ctx, token.UserID)
		if err != nil {
			return fmt.Errorf("%w: %v", common.ErrorStoreUnavailable, err)
		}
		if victim := sessionTokenWithLeastTTL(tokens); victim != nil {
			if err := repo.Delete(ctx, victim.Token); err != nil {
				return fmt.Errorf("%w: %v", common.ErrorStoreUnavailable, err)
			}
		}
	}

	if err := repo.Insert(ctx, token); err != nil {
		return fmt.Errorf("%w: %v", common.ErrorStoreUnavailable, err)
	}
	return nil
}

// sessionTokenWithLeastTTL picks the stored token closest to expiring.
// Ties keep the first one encountered. Returns nil for an empty slice.
func sessionTokenWithLeastTTL(tokens []models.SessionToken) *models.SessionToken {
	var victim *models.SessionToken
	for i := range tokens {
		if victim == nil || tokens[i].ExpiresAt.Before(victim.ExpiresAt) {
			victim = &tokens[i]
		}
	}
	return victim
}
