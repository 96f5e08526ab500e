// Package auth implements the signed-token codec: minting and parsing of
// HS256 tokens carrying a subject user id and an expiry claim.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/solvexa/authgate/internal/common"
)

// Claims is the claim set carried by both access and session tokens:
// the standard registered claims plus the owning user's id.
type Claims struct {
	jwt.RegisteredClaims
	UserID string
}

// Codec mints and parses signed tokens with a process-wide HMAC secret.
// The secret is validated at startup by the config layer; an empty secret
// never reaches a Codec.
type Codec struct {
	secret []byte
}

func NewCodec(secret []byte) *Codec {
	return &Codec{secret: secret}
}

// Mint returns a compact signed token for userID expiring after ttl.
// The random jti keeps two tokens minted within the same second distinct,
// which matters because a session token string doubles as its store key.
func (c *Codec) Mint(userID string, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
		UserID: userID,
	})

	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Parse verifies the signature and decodes the claims. Expiry is deliberately
// NOT checked here: an expired but validly signed token still parses, and
// callers compare the expiry claim to the clock (or the session store)
// themselves. Signature or format problems yield common.ErrInvalidToken.
func (c *Codec) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}

	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	token, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrInvalidToken
		}
		return c.secret, nil
	})
	if err != nil {
		return nil, common.ErrInvalidToken
	}
	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

// IsValid reports whether the token's signature verifies, independent of
// expiry.
func (c *Codec) IsValid(tokenString string) bool {
	_, err := c.Parse(tokenString)
	return err == nil
}

// TTLSeconds returns the whole seconds remaining until expiresAt, clamped at
// zero so an already-expired instant reports 0, never a negative value.
func TTLSeconds(expiresAt, now time.Time) int64 {
	remaining := int64(expiresAt.Sub(now).Seconds())
	if remaining < 0 {
		return 0
	}
	return remaining
}
