package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/attrigo/asapp/internal/domain"
	"github.com/attrigo/asapp/pkg/database"
)

// AuthenticationRepository implements repository.AuthenticationRepository
// using PostgreSQL. The jwt_authentications table is uniquely indexed on both
// token values, so a duplicate token surfaces as a persistence error rather
// than silently shadowing another session.
type AuthenticationRepository struct {
	pool database.DBTX
}

// NewAuthenticationRepository creates a new PostgreSQL-backed authentication repository.
func NewAuthenticationRepository(pool database.DBTX) *AuthenticationRepository {
	return &AuthenticationRepository{pool: pool}
}

const authColumns = `id, user_id, subject, role,
		access_token, access_issued_at, access_expires_at,
		refresh_token, refresh_issued_at, refresh_expires_at`

// Save inserts the record or fully replaces the token pair when the id
// already exists (rotation keeps the record id).
func (r *AuthenticationRepository) Save(ctx context.Context, a *domain.Authentication) error {
	query := `
		INSERT INTO jwt_authentications (id, user_id, subject, role,
			access_token, access_issued_at, access_expires_at,
			refresh_token, refresh_issued_at, refresh_expires_at,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
		ON CONFLICT (id) DO UPDATE SET
			access_token = EXCLUDED.access_token,
			access_issued_at = EXCLUDED.access_issued_at,
			access_expires_at = EXCLUDED.access_expires_at,
			refresh_token = EXCLUDED.refresh_token,
			refresh_issued_at = EXCLUDED.refresh_issued_at,
			refresh_expires_at = EXCLUDED.refresh_expires_at,
			updated_at = EXCLUDED.updated_at`

	_, err := r.pool.Exec(ctx, query,
		a.ID,
		a.UserID,
		a.Pair.Access.Subject,
		string(a.Pair.Access.Role),
		a.Pair.Access.Value,
		a.Pair.Access.IssuedAt,
		a.Pair.Access.ExpiresAt,
		a.Pair.Refresh.Value,
		a.Pair.Refresh.IssuedAt,
		a.Pair.Refresh.ExpiresAt,
		time.Now().UTC(),
	)
	if err != nil {
		return &domain.PersistenceError{Op: "save authentication", Err: err}
	}

	return nil
}

// FindByAccessToken looks up the record holding the given encoded access token.
func (r *AuthenticationRepository) FindByAccessToken(ctx context.Context, token string) (*domain.Authentication, error) {
	query := `
		SELECT ` + authColumns + `
		FROM jwt_authentications
		WHERE access_token = $1`

	return r.scanAuthentication(ctx, "find by access token", query, token)
}

// FindByRefreshToken looks up the record holding the given encoded refresh token.
func (r *AuthenticationRepository) FindByRefreshToken(ctx context.Context, token string) (*domain.Authentication, error) {
	query := `
		SELECT ` + authColumns + `
		FROM jwt_authentications
		WHERE refresh_token = $1`

	return r.scanAuthentication(ctx, "find by refresh token", query, token)
}

// DeleteByID removes the record. Deleting an absent id is not an error.
func (r *AuthenticationRepository) DeleteByID(ctx context.Context, id string) error {
	query := `DELETE FROM jwt_authentications WHERE id = $1`

	if _, err := r.pool.Exec(ctx, query, id); err != nil {
		return &domain.PersistenceError{Op: "delete authentication", Err: err}
	}

	return nil
}

func (r *AuthenticationRepository) scanAuthentication(ctx context.Context, op, query string, args ...any) (*domain.Authentication, error) {
	var (
		a    domain.Authentication
		role string
	)

	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&a.ID,
		&a.UserID,
		&a.Pair.Access.Subject,
		&role,
		&a.Pair.Access.Value,
		&a.Pair.Access.IssuedAt,
		&a.Pair.Access.ExpiresAt,
		&a.Pair.Refresh.Value,
		&a.Pair.Refresh.IssuedAt,
		&a.Pair.Refresh.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAuthenticationNotFound
		}
		return nil, &domain.PersistenceError{Op: op, Err: err}
	}

	a.Pair.Access.Use = domain.TokenUseAccess
	a.Pair.Access.Role = domain.Role(role)
	a.Pair.Refresh.Use = domain.TokenUseRefresh
	a.Pair.Refresh.Subject = a.Pair.Access.Subject
	a.Pair.Refresh.Role = a.Pair.Access.Role

	return &a, nil
}
