// Package cryptox implements password hashing and verification for local
// accounts. Passwords are hashed with PBKDF2-HMAC-SHA256 using a random
// per-password salt; the salt and the derived key are stored hex-encoded.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"github.com/solvexa/authgate/internal/common"
	"golang.org/x/crypto/pbkdf2"
)

const (
	saltSize   = 16
	keySize    = 32
	iterations = 260000
)

// HashPassword derives a key from password with a fresh random salt.
// Both return values are hex-encoded.
func HashPassword(password string) (salt string, hash string) {
	saltBytes := common.GenerateRandByteArray(saltSize)
	key := pbkdf2.Key([]byte(password), saltBytes, iterations, keySize, sha256.New)
	return hex.EncodeToString(saltBytes), hex.EncodeToString(key)
}

// VerifyPassword re-derives the key for candidate using the stored salt and
// compares it against the stored hash in constant time. A wrong password is a
// normal business outcome, so the result is a bool, never an error.
func VerifyPassword(candidate string, hash string, salt string) bool {
	saltBytes, err := hex.DecodeString(salt)
	if err != nil {
		return false
	}
	key := pbkdf2.Key([]byte(candidate), saltBytes, iterations, keySize, sha256.New)
	return subtle.ConstantTimeCompare([]byte(hex.EncodeToString(key)), []byte(hash)) == 1
}
