package repository

import (
	"context"

	"github.com/attrigo/asapp/internal/domain"
)

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	// Create inserts a new user into the store.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique identifier.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByUsername retrieves a user by their unique username.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// UpdatePasswordHash replaces the stored password hash for the user.
	// Usernames are immutable, so this is the only mutation users support.
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error
}

// AuthenticationRepository is the durable system-of-record for active
// sessions. It exclusively owns the record lifecycle; the fast-access token
// store is a derived index reconcilable from it.
type AuthenticationRepository interface {
	// Save inserts the record, or fully replaces it when the id already
	// exists (token rotation keeps the id).
	Save(ctx context.Context, auth *domain.Authentication) error

	// FindByAccessToken looks up the record holding the given encoded access
	// token. Returns domain.ErrAuthenticationNotFound when absent.
	FindByAccessToken(ctx context.Context, token string) (*domain.Authentication, error)

	// FindByRefreshToken looks up the record holding the given encoded
	// refresh token. Returns domain.ErrAuthenticationNotFound when absent.
	FindByRefreshToken(ctx context.Context, token string) (*domain.Authentication, error)

	// DeleteByID removes the record. Deleting an absent id is not an error.
	DeleteByID(ctx context.Context, id string) error
}

// TokenStore is the fast-access existence index over live tokens. It is an
// optimization and consistency guard, never authoritative on its own: a
// missing key does not by itself prove revocation.
type TokenStore interface {
	// Save inserts existence markers for both tokens of the pair, each with
	// a TTL matching that token's remaining lifetime, floored at one second
	// so a save never silently no-ops.
	Save(ctx context.Context, pair domain.TokenPair) error

	// AccessTokenExists reports whether the encoded access token is live.
	AccessTokenExists(ctx context.Context, token string) (bool, error)

	// Delete removes both markers. Deleting an absent pair is not an error.
	Delete(ctx context.Context, pair domain.TokenPair) error
}
