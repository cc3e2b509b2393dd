package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/attrigo/asapp/internal/auth"
	"github.com/attrigo/asapp/internal/domain"
	"github.com/attrigo/asapp/internal/event"
	"github.com/attrigo/asapp/internal/repository"
	apperrors "github.com/attrigo/asapp/pkg/errors"
)

// bcryptCost is the cost factor for bcrypt password hashing.
const bcryptCost = 12

// minPasswordLength is the minimum password length required.
const minPasswordLength = 8

// AccountService implements credential record management: registration,
// password re-encoding, and profile lookup. Usernames are immutable and
// accounts are never deleted by auth flows.
type AccountService struct {
	users    repository.UserRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewAccountService creates a new account service.
func NewAccountService(users repository.UserRepository, producer *event.Producer, logger *slog.Logger) *AccountService {
	return &AccountService{users: users, producer: producer, logger: logger}
}

// RegisterInput holds the parameters for registering a new user.
type RegisterInput struct {
	Username string
	Password string
}

// Register creates a new credential record with a normalized username and a
// bcrypt password hash. New users always get the USER role.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	username := auth.NormalizeUsername(input.Username)
	if username == "" {
		return nil, apperrors.InvalidInput("username is required")
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: string(hashed),
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	if s.producer != nil {
		if err := s.producer.PublishUserRegistered(ctx, user); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish user.registered event",
				slog.String("user_id", user.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// ChangePassword re-encodes the user's password after verifying the current
// one. This is the only mutation a credential record supports.
func (s *AccountService) ChangePassword(ctx context.Context, username, currentPassword, newPassword string) error {
	if currentPassword == "" {
		return apperrors.InvalidInput("current password is required")
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	if currentPassword == newPassword {
		return apperrors.InvalidInput("new password must be different from current password")
	}

	user, err := s.users.GetByUsername(ctx, auth.NormalizeUsername(username))
	if err != nil {
		return fmt.Errorf("get user for password change: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return apperrors.Unauthorized("current password is incorrect")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash new password: %w", err)
	}

	if err := s.users.UpdatePasswordHash(ctx, user.ID, string(hashed)); err != nil {
		return err
	}

	if s.producer != nil {
		if err := s.producer.PublishPasswordChanged(ctx, user.ID); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish user.password_changed event",
				slog.String("user_id", user.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	s.logger.InfoContext(ctx, "password changed",
		slog.String("user_id", user.ID),
	)

	return nil
}

// GetProfile retrieves a user by their username.
func (s *AccountService) GetProfile(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, auth.NormalizeUsername(username))
	if err != nil {
		return nil, fmt.Errorf("get user profile: %w", err)
	}
	return user, nil
}

// validatePassword checks that the password meets minimum complexity requirements.
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return apperrors.InvalidInput(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	var hasUpper, hasLower, hasDigit bool
	for _, ch := range password {
		switch {
		case unicode.IsUpper(ch):
			hasUpper = true
		case unicode.IsLower(ch):
			hasLower = true
		case unicode.IsDigit(ch):
			hasDigit = true
		}
	}

	if !hasUpper || !hasLower || !hasDigit {
		return apperrors.InvalidInput("password must contain at least one uppercase letter, one lowercase letter, and one digit")
	}

	return nil
}
