package models

import "time"

// SessionToken is one long-lived, renewable login session. The signed token
// string doubles as the store key.
type SessionToken struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
}

// AuthToken is the result of a successful login, renewal, or federated
// login. It is returned to the caller and never persisted.
type AuthToken struct {
	AccessToken     string `json:"access_token"`
	SessionToken    string `json:"session_token"`
	TokenType       string `json:"token_type"`
	AccessExpiresIn int64  `json:"access_expires_in"`
}

// AuthContext carries the already signature-verified session token of the
// current request. The boundary layer builds it; the engine never reads
// ambient state.
type AuthContext struct {
	SessionToken string
	UserID       string
}
