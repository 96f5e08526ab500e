// Package models holds the server-side domain records shared between
// repositories, services, and the transport layer.
package models

// User is one account in the directory. A user is either local (password
// credentials set) or federated (GoogleID set); both kinds reserve their
// email. AccessToken holds the single most-recently-issued access token:
// overwriting it implicitly invalidates any earlier one.
type User struct {
	UserID       string
	Username     string
	Email        string
	PasswordHash string
	PasswordSalt string
	GoogleID     string
	AccessToken  string
}

// IsFederated reports whether the account authenticates through the identity
// provider rather than a stored password.
func (u *User) IsFederated() bool {
	return u.GoogleID != ""
}
