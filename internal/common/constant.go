// Package common contains shared constants and sentinel errors used across
// authgate components.
package common

// TokenTypeBearer is the token_type value returned with every issued
// credential pair and expected in the Authorization header.
const TokenTypeBearer = "Bearer"
