package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/attrigo/asapp/internal/domain"
	"github.com/attrigo/asapp/internal/service"
	apperrors "github.com/attrigo/asapp/pkg/errors"
	"github.com/attrigo/asapp/pkg/httputil"
	"github.com/attrigo/asapp/pkg/middleware"
	"github.com/attrigo/asapp/pkg/validator"
)

// AuthHandler handles HTTP requests for auth endpoints.
type AuthHandler struct {
	auth     *service.AuthService
	accounts *service.AccountService
	logger   *slog.Logger
}

// NewAuthHandler creates a new auth HTTP handler.
func NewAuthHandler(auth *service.AuthService, accounts *service.AccountService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, accounts: accounts, logger: logger}
}

// --- Request DTOs ---

// RegisterRequest is the JSON request body for user registration.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=255"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest is the JSON request body for user login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshTokenRequest is the JSON request body for token refresh.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// ChangePasswordRequest is the JSON request body for changing a password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// --- Response types ---

// TokenResponse carries an issued token on the wire.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TokenPairResponse carries an issued access/refresh pair on the wire.
type TokenPairResponse struct {
	AccessToken  TokenResponse `json:"access_token"`
	RefreshToken TokenResponse `json:"refresh_token"`
}

// UserResponse is the public shape of a user.
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func newTokenPairResponse(pair domain.TokenPair) TokenPairResponse {
	return TokenPairResponse{
		AccessToken:  TokenResponse{Token: pair.Access.Value, ExpiresAt: pair.Access.ExpiresAt},
		RefreshToken: TokenResponse{Token: pair.Refresh.Value, ExpiresAt: pair.Refresh.ExpiresAt},
	}
}

func newUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

// --- Handlers ---

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	user, err := h.accounts.Register(r.Context(), service.RegisterInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: newUserResponse(user)})
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	authn, err := h.auth.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: newTokenPairResponse(authn.Pair)})
}

// RefreshToken handles POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	authn, err := h.auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: newTokenPairResponse(authn.Pair)})
}

// Logout handles POST /api/v1/auth/logout. The access token to revoke is the
// bearer token that authenticated the request.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromContext(r.Context())
	if token == "" {
		httputil.WriteError(w, r, apperrors.Unauthorized("missing bearer token"), h.logger)
		return
	}

	if err := h.auth.Revoke(r.Context(), token); err != nil {
		h.writeError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]string{"message": "session revoked"},
	})
}

// ChangePassword handles POST /api/v1/auth/change-password
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	username := middleware.UsernameFromContext(r.Context())
	if username == "" {
		httputil.WriteError(w, r, apperrors.Unauthorized("authentication required"), h.logger)
		return
	}

	if err := h.accounts.ChangePassword(r.Context(), username, req.CurrentPassword, req.NewPassword); err != nil {
		h.writeError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]string{"message": "password has been changed successfully"},
	})
}

// writeError translates auth domain errors into HTTP error responses before
// delegating to the shared error writer.
func (h *AuthHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	httputil.WriteError(w, r, mapDomainError(err), h.logger)
}

// mapDomainError converts auth domain errors into transport-level errors.
// Credential and token failures all collapse into 401 so callers cannot
// distinguish an unknown user from a bad password or a revoked session.
func mapDomainError(err error) error {
	var persistErr *domain.PersistenceError
	var storeErr *domain.TokenStoreError
	var compErr *domain.CompensationError

	switch {
	case errors.Is(err, domain.ErrBadCredentials):
		return apperrors.Unauthorized("invalid credentials")
	case errors.Is(err, domain.ErrInvalidToken), errors.Is(err, domain.ErrUnexpectedTokenType):
		return apperrors.Unauthorized("invalid token")
	case errors.Is(err, domain.ErrAuthenticationNotFound):
		return apperrors.Unauthorized("session not found")
	case errors.As(err, &compErr):
		return &apperrors.AppError{
			Code:    "AUTH_STATE_ERROR",
			Message: "authentication state could not be restored",
			Status:  http.StatusInternalServerError,
			Err:     err,
		}
	case errors.As(err, &persistErr), errors.As(err, &storeErr):
		return &apperrors.AppError{
			Code:    "AUTH_STORAGE_ERROR",
			Message: "authentication storage is unavailable",
			Status:  http.StatusServiceUnavailable,
			Err:     err,
		}
	default:
		return err
	}
}
