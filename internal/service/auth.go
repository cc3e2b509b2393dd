package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/attrigo/asapp/internal/auth"
	"github.com/attrigo/asapp/internal/domain"
	"github.com/attrigo/asapp/internal/event"
	"github.com/attrigo/asapp/internal/repository"
)

// AuthService orchestrates the session lifecycle: Authenticate, Refresh, and
// Revoke. Each operation is a short saga over the durable repository and the
// fast-access token store with at most one compensating step on failure.
// Steps run sequentially; failures either propagate immediately (before any
// durable mutation) or trigger exactly one bounded compensation attempt.
type AuthService struct {
	authenticator *auth.Authenticator
	issuer        *auth.Issuer
	codec         *auth.Codec
	repo          repository.AuthenticationRepository
	store         repository.TokenStore
	producer      *event.Producer
	logger        *slog.Logger
}

// NewAuthService creates the lifecycle orchestrator.
func NewAuthService(
	authenticator *auth.Authenticator,
	issuer *auth.Issuer,
	codec *auth.Codec,
	repo repository.AuthenticationRepository,
	store repository.TokenStore,
	producer *event.Producer,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		issuer:        issuer,
		codec:         codec,
		repo:          repo,
		store:         store,
		producer:      producer,
		logger:        logger,
	}
}

// Authenticate verifies the credentials, issues a fresh token pair, persists
// a new authentication record, and registers the pair in the fast store.
//
// If the fast-store save fails after the record is durably persisted, the
// error surfaces as a TokenStoreError and the record is left in place: its
// tokens expire on their own schedule, and the store markers are rebuilt on
// the next successful save. No compensating delete is attempted.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*domain.Authentication, error) {
	principal, err := s.authenticator.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}

	pair, err := s.issuer.IssuePairFor(principal)
	if err != nil {
		return nil, fmt.Errorf("issue token pair: %w", err)
	}

	record := &domain.Authentication{
		ID:     uuid.New().String(),
		UserID: principal.UserID,
		Pair:   pair,
	}

	if err := s.repo.Save(ctx, record); err != nil {
		return nil, err
	}

	if err := s.store.Save(ctx, pair); err != nil {
		s.logger.ErrorContext(ctx, "token store save failed after durable persist, record left for expiry",
			slog.String("authentication_id", record.ID),
			slog.String("user_id", record.UserID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.InfoContext(ctx, "session created",
		slog.String("authentication_id", record.ID),
		slog.String("user_id", record.UserID),
	)

	return record, nil
}

// Refresh rotates a token pair: it verifies the presented refresh token,
// issues a new pair for the same subject and role without re-authentication,
// replaces the pair on the existing record, and swaps the fast-store markers.
//
// Once the durable record holds the new pair, a fast-store failure leaves the
// old tokens live in the cache (a replay window). Compensation restores the
// old pair on the repository so the two stores agree again; if that
// compensation itself fails, a CompensationError escalates the divergence.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.Authentication, error) {
	token, err := s.codec.Decode(refreshToken)
	if err != nil {
		return nil, err
	}
	if token.Use != domain.TokenUseRefresh {
		return nil, domain.ErrUnexpectedTokenType
	}

	current, err := s.repo.FindByRefreshToken(ctx, token.Value)
	if err != nil {
		return nil, err
	}

	newPair, err := s.issuer.IssuePair(token.Subject, token.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token pair: %w", err)
	}

	previous := &domain.Authentication{ID: current.ID, UserID: current.UserID, Pair: current.Pair}
	updated := &domain.Authentication{ID: current.ID, UserID: current.UserID, Pair: newPair}

	// Old pair is still intact everywhere if this fails; the whole operation
	// is safe to retry.
	if err := s.repo.Save(ctx, updated); err != nil {
		return nil, err
	}

	if err := s.store.Delete(ctx, previous.Pair); err != nil {
		return nil, s.compensateRefresh(ctx, previous, "evict superseded pair", err, false)
	}

	if err := s.store.Save(ctx, newPair); err != nil {
		return nil, s.compensateRefresh(ctx, previous, "register rotated pair", err, true)
	}

	s.logger.InfoContext(ctx, "session refreshed",
		slog.String("authentication_id", updated.ID),
		slog.String("user_id", updated.UserID),
	)

	return updated, nil
}

// Revoke terminates the session owning the presented access token: the fast
// store markers are removed first, then the durable record. If the record
// delete fails after the markers are gone, compensation re-saves the pair to
// the fast store so the session stays visibly live rather than half-dead.
func (s *AuthService) Revoke(ctx context.Context, accessToken string) error {
	token, err := s.codec.Decode(accessToken)
	if err != nil {
		return err
	}
	if token.Use != domain.TokenUseAccess {
		return domain.ErrUnexpectedTokenType
	}

	exists, err := s.store.AccessTokenExists(ctx, token.Value)
	if err != nil {
		return err
	}
	if !exists {
		// Already gone or never existed; an idempotent no-op, not a failure
		// requiring compensation.
		return domain.ErrAuthenticationNotFound
	}

	record, err := s.repo.FindByAccessToken(ctx, token.Value)
	if err != nil {
		return err
	}

	// No durable mutation has happened yet, so nothing to compensate.
	if err := s.store.Delete(ctx, record.Pair); err != nil {
		return err
	}

	if err := s.repo.DeleteByID(ctx, record.ID); err != nil {
		if compErr := s.store.Save(ctx, record.Pair); compErr != nil {
			s.logger.ErrorContext(ctx, "compensating transaction failed, stores divergent",
				slog.String("operation", "revoke"),
				slog.String("authentication_id", record.ID),
				slog.String("cause", err.Error()),
				slog.String("compensation_error", compErr.Error()),
			)
			return &domain.CompensationError{Op: "revoke", Cause: err, CompensationErr: compErr}
		}
		s.logger.WarnContext(ctx, "revoke rolled back, session restored to fast store",
			slog.String("authentication_id", record.ID),
			slog.String("error", err.Error()),
		)
		return err
	}

	s.logger.InfoContext(ctx, "session revoked",
		slog.String("authentication_id", record.ID),
		slog.String("user_id", record.UserID),
	)

	if s.producer != nil {
		if err := s.producer.PublishSessionRevoked(ctx, record); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish auth.session_revoked event",
				slog.String("authentication_id", record.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	return nil
}

// compensateRefresh restores the previous record on the repository after a
// fast-store failure mid-rotation, and optionally re-saves the old pair's
// markers (needed when the old markers were already evicted). On success the
// original cause is returned so the caller sees the store failure; if the
// compensation itself fails the error escalates to a CompensationError.
func (s *AuthService) compensateRefresh(ctx context.Context, previous *domain.Authentication, op string, cause error, restoreMarkers bool) error {
	if err := s.repo.Save(ctx, previous); err != nil {
		s.logger.ErrorContext(ctx, "compensating transaction failed, stores divergent",
			slog.String("operation", "refresh"),
			slog.String("step", op),
			slog.String("authentication_id", previous.ID),
			slog.String("cause", cause.Error()),
			slog.String("compensation_error", err.Error()),
		)
		return &domain.CompensationError{Op: op, Cause: cause, CompensationErr: err}
	}

	if restoreMarkers {
		if err := s.store.Save(ctx, previous.Pair); err != nil {
			s.logger.ErrorContext(ctx, "compensating transaction failed, stores divergent",
				slog.String("operation", "refresh"),
				slog.String("step", op),
				slog.String("authentication_id", previous.ID),
				slog.String("cause", cause.Error()),
				slog.String("compensation_error", err.Error()),
			)
			return &domain.CompensationError{Op: op, Cause: cause, CompensationErr: err}
		}
	}

	s.logger.WarnContext(ctx, "refresh rolled back, previous pair restored",
		slog.String("step", op),
		slog.String("authentication_id", previous.ID),
		slog.String("error", cause.Error()),
	)

	return cause
}
