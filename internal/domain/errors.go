package domain

import (
	"errors"
	"fmt"
)

// Terminal authentication errors. None of these are retried internally.
var (
	// ErrBadCredentials is returned for an unknown username or a password
	// mismatch. The two cases are deliberately indistinguishable.
	ErrBadCredentials = errors.New("bad credentials")

	// ErrInvalidToken is returned for a malformed, tampered, or expired token.
	ErrInvalidToken = errors.New("invalid token")

	// ErrUnexpectedTokenType is returned when a token is valid but of the
	// wrong purpose, e.g. an access token presented to the refresh flow.
	ErrUnexpectedTokenType = errors.New("unexpected token type")

	// ErrAuthenticationNotFound is returned when no session exists for the
	// presented token. Safe for the caller to retry; revoking an absent
	// session is an idempotent no-op.
	ErrAuthenticationNotFound = errors.New("authentication not found")
)

// PersistenceError wraps a failure of the durable authentication store.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("authentication persistence: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// TokenStoreError wraps a failure of the fast-access token store. When it
// follows a durable mutation it signals a detected-but-limited inconsistency
// window between the two stores.
type TokenStoreError struct {
	Op  string
	Err error
}

func (e *TokenStoreError) Error() string {
	return fmt.Sprintf("token store: %s: %v", e.Op, e.Err)
}

func (e *TokenStoreError) Unwrap() error { return e.Err }

// CompensationError reports that a compensation attempt, meant to undo a
// partial lifecycle step, itself failed. The durable store and the fast
// store are now divergent with no automatic path back; this must reach
// operators, not be swallowed.
type CompensationError struct {
	Op              string
	Cause           error
	CompensationErr error
}

func (e *CompensationError) Error() string {
	return fmt.Sprintf("compensating transaction failed during %s: %v (original cause: %v)", e.Op, e.CompensationErr, e.Cause)
}

// Unwrap exposes the original cause so callers can classify the failure that
// triggered the compensation.
func (e *CompensationError) Unwrap() error { return e.Cause }
