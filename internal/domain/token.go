package domain

import (
	"time"
)

// TokenUse discriminates the purpose of a token. A token is exactly one of
// access or refresh, never both or neither.
type TokenUse string

const (
	TokenUseAccess  TokenUse = "access"
	TokenUseRefresh TokenUse = "refresh"
)

// HeaderType returns the JOSE "typ" header value for this token use.
func (u TokenUse) HeaderType() string {
	if u == TokenUseRefresh {
		return "rt+jwt"
	}
	return "at+jwt"
}

// TokenUseFromHeaderType maps a JOSE "typ" header value back to a token use.
// Returns false for any unknown value.
func TokenUseFromHeaderType(typ string) (TokenUse, bool) {
	switch typ {
	case "at+jwt":
		return TokenUseAccess, true
	case "rt+jwt":
		return TokenUseRefresh, true
	}
	return "", false
}

// Token is a decoded, signed token. Value holds the compact encoded form.
// Invariant: ExpiresAt is strictly after IssuedAt.
type Token struct {
	Value     string    `json:"value"`
	Use       TokenUse  `json:"use"`
	Subject   string    `json:"subject"`
	Role      Role      `json:"role"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TTL returns the remaining lifetime of the token relative to now. The
// result can be zero or negative for an expired token.
func (t Token) TTL(now time.Time) time.Duration {
	return t.ExpiresAt.Sub(now)
}

// TokenPair is exactly one access token and one refresh token, issued and
// rotated together. Invariant: both members share subject and role.
type TokenPair struct {
	Access  Token `json:"access_token"`
	Refresh Token `json:"refresh_token"`
}

// NewTokenPair builds a pair after checking the pair invariants.
func NewTokenPair(access, refresh Token) (TokenPair, error) {
	if access.Use != TokenUseAccess || refresh.Use != TokenUseRefresh {
		return TokenPair{}, ErrUnexpectedTokenType
	}
	if access.Subject != refresh.Subject || access.Role != refresh.Role {
		return TokenPair{}, ErrInvalidToken
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

// Authentication is the durable record of an active session: a user and its
// current token pair. Refresh replaces the pair in place (same id); Revoke
// deletes the record.
type Authentication struct {
	ID     string    `json:"id"`
	UserID string    `json:"user_id"`
	Pair   TokenPair `json:"pair"`
}
