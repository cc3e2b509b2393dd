package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/attrigo/asapp/internal/domain"
	"github.com/attrigo/asapp/internal/repository"
	apperrors "github.com/attrigo/asapp/pkg/errors"
)

// Authenticator validates username/password credentials against the user
// store. Stateless given its user-lookup collaborator.
type Authenticator struct {
	users repository.UserRepository
}

// NewAuthenticator creates a credential authenticator.
func NewAuthenticator(users repository.UserRepository) *Authenticator {
	return &Authenticator{users: users}
}

// NormalizeUsername lowercases and trims a username so lookups and the unique
// index agree on one canonical form.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// Authenticate looks up the user and compares the password hash. An unknown
// username and a wrong password both yield domain.ErrBadCredentials; the
// returned principal carries no credential material.
func (a *Authenticator) Authenticate(ctx context.Context, username, password string) (domain.Principal, error) {
	user, err := a.users.GetByUsername(ctx, NormalizeUsername(username))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.Principal{}, domain.ErrBadCredentials
		}
		return domain.Principal{}, fmt.Errorf("look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.Principal{}, domain.ErrBadCredentials
	}

	return domain.Principal{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	}, nil
}
