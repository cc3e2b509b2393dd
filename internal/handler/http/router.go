package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/attrigo/asapp/internal/auth"
	"github.com/attrigo/asapp/internal/domain"
	"github.com/attrigo/asapp/internal/service"
	"github.com/attrigo/asapp/pkg/health"
	"github.com/attrigo/asapp/pkg/middleware"
)

// NewRouter creates a chi router with all auth service routes registered.
func NewRouter(
	authService *service.AuthService,
	accountService *service.AccountService,
	codec *auth.Codec,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("auth"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Token validator that bridges the token codec into the auth middleware.
	// Only access tokens authenticate requests.
	tokenValidator := func(encoded string) (*middleware.Claims, error) {
		token, err := codec.Decode(encoded)
		if err != nil {
			return nil, err
		}
		if token.Use != domain.TokenUseAccess {
			return nil, domain.ErrUnexpectedTokenType
		}
		return &middleware.Claims{
			Username: token.Subject,
			Role:     string(token.Role),
		}, nil
	}

	authHandler := NewAuthHandler(authService, accountService, logger)

	// Auth endpoints (public)
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)

			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.RefreshToken)
		})

		// Authenticated auth endpoints
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(tokenValidator))

			r.Post("/logout", authHandler.Logout)

			r.With(ContentTypeJSON).Post("/change-password", authHandler.ChangePassword)
		})
	})

	// User profile endpoints (auth required)
	userHandler := NewUserHandler(accountService, logger)
	r.Route("/api/v1/users", func(r chi.Router) {
		r.Use(middleware.Auth(tokenValidator))

		r.Get("/me", userHandler.GetProfile)
	})

	return r
}
