package http

import (
	"log/slog"
	"net/http"

	"github.com/attrigo/asapp/internal/service"
	apperrors "github.com/attrigo/asapp/pkg/errors"
	"github.com/attrigo/asapp/pkg/httputil"
	"github.com/attrigo/asapp/pkg/middleware"
)

// UserHandler handles HTTP requests for user profile endpoints.
type UserHandler struct {
	accounts *service.AccountService
	logger   *slog.Logger
}

// NewUserHandler creates a new user HTTP handler.
func NewUserHandler(accounts *service.AccountService, logger *slog.Logger) *UserHandler {
	return &UserHandler{accounts: accounts, logger: logger}
}

// GetProfile handles GET /api/v1/users/me
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	username := middleware.UsernameFromContext(r.Context())
	if username == "" {
		httputil.WriteError(w, r, apperrors.Unauthorized("authentication required"), h.logger)
		return
	}

	user, err := h.accounts.GetProfile(r.Context(), username)
	if err != nil {
		httputil.WriteError(w, r, mapDomainError(err), h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: newUserResponse(user)})
}
