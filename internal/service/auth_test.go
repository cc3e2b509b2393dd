package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/attrigo/asapp/internal/auth"
	"github.com/attrigo/asapp/internal/domain"
	apperrors "github.com/attrigo/asapp/pkg/errors"
)

// --- Mock User Repository ---

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) UpdatePasswordHash(ctx context.Context, id, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

// --- Mock Authentication Repository ---

type mockAuthenticationRepository struct {
	mock.Mock
}

func (m *mockAuthenticationRepository) Save(ctx context.Context, a *domain.Authentication) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *mockAuthenticationRepository) FindByAccessToken(ctx context.Context, token string) (*domain.Authentication, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Authentication), args.Error(1)
}

func (m *mockAuthenticationRepository) FindByRefreshToken(ctx context.Context, token string) (*domain.Authentication, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Authentication), args.Error(1)
}

func (m *mockAuthenticationRepository) DeleteByID(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- Mock Token Store ---

type mockTokenStore struct {
	mock.Mock
}

func (m *mockTokenStore) Save(ctx context.Context, pair domain.TokenPair) error {
	args := m.Called(ctx, pair)
	return args.Error(0)
}

func (m *mockTokenStore) AccessTokenExists(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

func (m *mockTokenStore) Delete(ctx context.Context, pair domain.TokenPair) error {
	args := m.Called(ctx, pair)
	return args.Error(0)
}

// --- Test Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestCodec() *auth.Codec {
	return auth.NewCodec("test-secret-key-for-testing")
}

func newTestAuthService(
	userRepo *mockUserRepository,
	authRepo *mockAuthenticationRepository,
	store *mockTokenStore,
) *AuthService {
	codec := newTestCodec()
	issuer := auth.NewIssuer(codec, 5*time.Minute, time.Hour)
	authenticator := auth.NewAuthenticator(userRepo)
	return NewAuthService(authenticator, issuer, codec, authRepo, store, nil, newTestLogger())
}

// hashForTest creates a bcrypt hash with cost 4 for fast tests.
func hashForTest(password string) string {
	h, err := bcrypt.GenerateFromPassword([]byte(password), 4)
	if err != nil {
		panic(err)
	}
	return string(h)
}

func testUser() *domain.User {
	return &domain.User{
		ID:           "5f1e2c66-1f27-4a54-a2b4-98b5b1c3d001",
		Username:     "user@asapp.com",
		PasswordHash: hashForTest("Secret123!"),
		Role:         domain.RoleUser,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
}

// staleRecord builds a persisted session whose token values are fixed
// strings, so assertions can tell the old pair apart from any newly issued
// one.
func staleRecord() *domain.Authentication {
	now := time.Now().UTC().Truncate(time.Second)
	return &domain.Authentication{
		ID:     "9a0a12a4-7d78-45cc-a9e1-6f9e4f5b1002",
		UserID: "5f1e2c66-1f27-4a54-a2b4-98b5b1c3d001",
		Pair: domain.TokenPair{
			Access: domain.Token{
				Value:     "stale-access-token",
				Use:       domain.TokenUseAccess,
				Subject:   "user@asapp.com",
				Role:      domain.RoleUser,
				IssuedAt:  now.Add(-time.Minute),
				ExpiresAt: now.Add(4 * time.Minute),
			},
			Refresh: domain.Token{
				Value:     "stale-refresh-token",
				Use:       domain.TokenUseRefresh,
				Subject:   "user@asapp.com",
				Role:      domain.RoleUser,
				IssuedAt:  now.Add(-time.Minute),
				ExpiresAt: now.Add(59 * time.Minute),
			},
		},
	}
}

// --- Authenticate ---

func TestAuthenticate_Success(t *testing.T) {
	userRepo := new(mockUserRepository)
	authRepo := new(mockAuthenticationRepository)
	store := new(mockTokenStore)
	svc := newTestAuthService(userRepo, authRepo, store)
	ctx := context.Background()

	userRepo.On("GetByUsername", ctx, "user@asapp.com").Return(testUser(), nil)
	authRepo.On("Save", ctx, mock.AnythingOfType("*domain.Authentication")).Return(nil)
	store.On("Save", ctx, mock.AnythingOfType("domain.TokenPair")).Return(nil)

	record, err := svc.Authenticate(ctx, "user@asapp.com", "Secret123!")

	require.NoError(t, err)
	require.NotNil(t, record)
	assert.NotEmpty(t, record.ID)
	assert.Equal(t, "5f1e2c66-1f27-4a54-a2b4-98b5b1c3d001", record.UserID)
	assert.Equal(t, domain.TokenUseAccess, record.Pair.Access.Use)
	assert.Equal(t, domain.TokenUseRefresh, record.Pair.Refresh.Use)
	assert.Equal(t, "user@asapp.com", record.Pair.Access.Subject)
	assert.Equal(t, record.Pair.Access.Subject, record.Pair.Refresh.Subject)
	assert.Equal(t, domain.RoleUser, record.Pair.Access.Role)
	assert.NotEmpty(t, record.Pair.Access.Value)
	assert.NotEmpty(t, record.Pair.Refresh.Value)

	userRepo.AssertExpectations(t)
	authRepo.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestAuthenticate_NormalizesUsername(t *testing.T) {
	userRepo := new(mockUserRepository)
	authRepo := new(mockAuthenticationRepository)
	store := new(mockTokenStore)
	svc := newTestAuthService(userRepo, authRepo, store)
	ctx := context.Background()

	userRepo.On("GetByUsername", ctx, "user@asapp.com").Return(testUser(), nil)
	authRepo.On("Save", ctx, mock.Anything).Return(nil)
	store.On("Save", ctx, mock.Anything).Return(nil)

	_, err := svc.Authenticate(ctx, "  User@ASAPP.com ", "Secret123!")

	require.NoError(t, err)
	userRepo.AssertExpectations(t)
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	userRepo := new(mockUserRepository)
	authRepo := new(mockAuthenticationRepository)
	store := new(mockTokenStore)
	svc := newTestAuthService(userRepo, authRepo, store)
	ctx := context.Background()

	userRepo.On("GetByUsername", ctx, "user@asapp.com").Return(testUser(), nil)

	record, err := svc.Authenticate(ctx, "user@asapp.com", "wrong-password")

	assert.Nil(t, record)
	assert.ErrorIs(t, err, domain.ErrBadCredentials)
	authRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAuthenticate_UnknownUser(t *testing.T) {
	userRepo := new(mockUserRepository)
	authRepo := new(mockAuthenticationRepository)
	store := new(mockTokenStore)
	svc := newTestAuthService(userRepo, authRepo, store)
	ctx := context.Background()

	userRepo.On("GetByUsername", ctx, "ghost@asapp.com").
		Return(nil, apperrors.NotFound("user", "ghost@asapp.com"))

	record, err := svc.Authenticate(ctx, "ghost@asapp.com", "Secret123!")

	assert.Nil(t, record)
	// Indistinguishable from a wrong password.
	assert.ErrorIs(t, err, domain.ErrBadCredentials)
}

func TestAuthenticate_PersistFails(t *testing.T) {
	userRepo := new(mockUserRepository)
	authRepo := new(mockAuthenticationRepository)
	store := new(mockTokenStore)
	svc := newTestAuthService(userRepo, authRepo, store)
	ctx := context.Background()

	persistErr := &domain.PersistenceError{Op: "save authentication", Err: errors.New("connection refused")}
	userRepo.On("GetByUsername", ctx, "user@asapp.com").Return(testUser(), nil)
	authRepo.On("Save", ctx, mock.Anything).Return(persistErr)

	record, err := svc.Authenticate(ctx, "user@asapp.com", "Secret123!")

	assert.Nil(t, record)
	var pe *domain.PersistenceError
	assert.ErrorAs(t, err, &pe)
	// Nothing reached the fast store, so nothing to undo.
	store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestAuthenticate_StoreSaveFails_RecordLeftForExpiry(t *testing.T) {
	userRepo := new(mockUserRepository)
	authRepo := new(mockAuthenticationRepository)
	store := new(mockTokenStore)
	svc := newTestAuthService(userRepo, authRepo, store)
	ctx := context.Background()

	storeErr := &domain.TokenStoreError{Op: "save token pair", Err: errors.New("redis down")}
	userRepo.On("GetByUsername", ctx, "user@asapp.com").Return(testUser(), nil)
	authRepo.On("Save", ctx, mock.Anything).Return(nil)
	store.On("Save", ctx, mock.Anything).Return(storeErr)

	record, err := svc.Authenticate(ctx, "user@asapp.com", "Secret123!")

	assert.Nil(t, record)
	var se *domain.TokenStoreError
	assert.ErrorAs(t, err, &se)
	// The durable record is intentionally left in place to expire on its own.
	authRepo.AssertNotCalled(t, "DeleteByID", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

// --- Refresh ---

func TestRefresh_Success(t *testing.T) {
	userRepo := new(mockUserRepository)
	authRepo := new(mockAuthenticationRepository)
	store := new(mockTokenStore)
	svc := newTestAuthService(userRepo, authRepo, store)
	ctx := context.Background()

	refresh, err := newTestCodec().Issue("user@asapp.com", domain.RoleUser, domain.TokenUseRefresh, time.Hour)
	require.NoError(t, err)

	current := staleRecord()
	authRepo.On("FindByRefreshToken", ctx, refresh.Value).Return(current, nil)
	authRepo.On("Save", ctx, mock.AnythingOfType("*domain.Authentication")).Return(nil)
	store.On("Delete", ctx, current.Pair).Return(nil)
	store.On("Save", ctx, mock.AnythingOfType("domain.TokenPair")).Return(nil)

	updated, err := svc.Refresh(ctx, refresh.Value)

	require.NoError(t, err)
	require.NotNil(t, updated)
	// The record keeps its identity; only the pair rotates.
	assert.Equal(t, current.ID, updated.ID)
	assert.Equal(t, current.UserID, updated.UserID)
	assert.Equal(t, "user@asapp.com", updated.Pair.Access.Subject)
	assert.Equal(t, domain.RoleUser, updated.Pair.Refresh.Role)
	assert.NotEqual(t, "stale-access-token", updated.Pair.Access.Value)
	assert.NotEqual(t, "stale-refresh-token", updated.Pair.Refresh.Value)

	authRepo.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	userRepo := new(mockUserRepository)
	authRepo := new(mockAuthenticationRepository)
	store := new(mockTokenStore)
	svc := newTestAuthService(userRepo, authRepo, store)
	ctx := context.Background()

	access, err := newTestCodec().Issue("user@asapp.com", domain.RoleUser, domain.TokenUseAccess, 5*time.Minute)
	require.NoError(t, err)

	updated, err := svc.Refresh(ctx, access.Value)

	assert.Nil(t, updated)
	assert.ErrorIs(t, err, domain.ErrUnexpectedTokenType)
	authRepo.AssertNotCalled(t, "FindByRefreshToken", mock.Anything, mock.Anything)
}

func TestRefresh_MalformedToken(t *testing.T) {
	userRepo := new(mockUserRepository)
	authRepo := new(mockAuthenticationRepository)
	store := new(mockTokenStore)
	svc := newTestAuthService(userRepo, authRepo, store)

	updated, err := svc.Refresh(context.Background(), "not-a-jwt")

	assert.Nil(t, updated)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestRefresh_UnknownToken(t *testing.T) {
	userRepo := new(mockUserRepository)
	authRepo := new(mockAuthenticationRepository)
	store := new(mockTokenStore)
	svc := newTestAuthService(userRepo, authRepo, store)
	ctx := context.Background()

	refresh, err := newTestCodec().Issue("user@asapp.com", domain.RoleUser, domain.TokenUseRefresh, time.Hour)
	require.NoError(t, err)

	authRepo.On("FindByRefreshToken", ctx, refresh.Value).
		Return(nil, domain.ErrAuthenticationNotFound)

	updated, err := svc.Refresh(ctx, refresh.Value)

	assert.Nil(t, updated)
	assert.ErrorIs(t, err, domain.ErrAuthenticationNotFound)
}

func TestRefresh_EvictFails_PreviousPairRestored(t *testing.T) {
	userRepo := new(mockUserRepository)
	authRepo := new(mockAuthenticationRepository)
	store := new(mockTokenStore)
	svc := newTestAuthService(userRepo, authRepo, store)
	ctx := context.Background()

	refresh, err := newTestCodec().Issue("user@asapp.com", domain.RoleUser, domain.TokenUseRefresh, time.Hour)
	require.NoError(t, err)

	current := staleRecord()
	storeErr := &domain.TokenStoreError{Op: "delete token pair", Err: errors.New("redis down")}

	isOldPair := func(a *domain.Authentication) bool {
		return a.Pair.Access.Value == "stale-access-token"
	}

	authRepo.On("FindByRefreshToken", ctx, refresh.Value).Return(current, nil)
	authRepo.On("Save", ctx, mock.MatchedBy(func(a *domain.Authentication) bool { return !isOldPair(a) })).Return(nil).Once()
	store.On("Delete", ctx, current.Pair).Return(storeErr)
	// Compensation: the old pair goes back onto the durable record.
	authRepo.On("Save", ctx, mock.MatchedBy(isOldPair)).Return(nil).Once()

	updated, err := svc.Refresh(ctx, refresh.Value)

	assert.Nil(t, updated)
	var se *domain.TokenStoreError
	assert.ErrorAs(t, err, &se)
	var ce *domain.CompensationError
	assert.False(t, errors.As(err, &ce), "successful compensation must surface the original cause")
	// The old markers were never evicted, so they are not re-saved.
	store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)

	authRepo.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestRefresh_RegisterFails_PreviousPairAndMarkersRestored(t *testing.T) {
	userRepo := new(mockUserRepository)
	authRepo := new(mockAuthenticationRepository)
	store := new(mockTokenStore)
	svc := newTestAuthService(userRepo, authRepo, store)
	ctx := context.Background()

	refresh, err := newTestCodec().Issue("user@asapp.com", domain.RoleUser, domain.TokenUseRefresh, time.Hour)
	require.NoError(t, err)

	current := staleRecord()
	storeErr := &domain.TokenStoreError{Op: "save token pair", Err: errors.New("redis down")}

	isOldPair := func(a *domain.Authentication) bool {
		return a.Pair.Access.Value == "stale-access-token"
	}
	isOldMarkers := func(p domain.TokenPair) bool {
		return p.Access.Value == "stale-access-token"
	}

	authRepo.On("FindByRefreshToken", ctx, refresh.Value).Return(current, nil)
	authRepo.On("Save", ctx, mock.MatchedBy(func(a *domain.Authentication) bool { return !isOldPair(a) })).Return(nil).Once()
	store.On("Delete", ctx, current.Pair).Return(nil)
	store.On("Save", ctx, mock.MatchedBy(func(p domain.TokenPair) bool { return !isOldMarkers(p) })).Return(storeErr).Once()
	// Compensation restores both the durable record and the evicted markers.
	authRepo.On("Save", ctx, mock.MatchedBy(isOldPair)).Return(nil).Once()
	store.On("Save", ctx, mock.MatchedBy(isOldMarkers)).Return(nil).Once()

	updated, err := svc.Refresh(ctx, refresh.Value)

	assert.Nil(t, updated)
	var se *domain.TokenStoreError
	assert.ErrorAs(t, err, &se)

	authRepo.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestRefresh_CompensationFails_Escalates(t *testing.T) {
	userRepo := new(mockUserRepository)
	authRepo := new(mockAuthenticationRepository)
	store := new(mockTokenStore)
	svc := newTestAuthService(userRepo, authRepo, store)
	ctx := context.Background()

	refresh, err := newTestCodec().Issue("user@asapp.com", domain.RoleUser, domain.TokenUseRefresh, time.Hour)
	require.NoError(t, err)

	current := staleRecord()
	storeErr := &domain.TokenStoreError{Op: "delete token pair", Err: errors.New("redis down")}
	persistErr := &domain.PersistenceError{Op: "save authentication", Err: errors.New("connection refused")}

	isOldPair := func(a *domain.Authentication) bool {
		return a.Pair.Access.Value == "stale-access-token"
	}

	authRepo.On("FindByRefreshToken", ctx, refresh.Value).Return(current, nil)
	authRepo.On("Save", ctx, mock.MatchedBy(func(a *domain.Authentication) bool { return !isOldPair(a) })).Return(nil).Once()
	store.On("Delete", ctx, current.Pair).Return(storeErr)
	authRepo.On("Save", ctx, mock.MatchedBy(isOldPair)).Return(persistErr).Once()

	updated, err := svc.Refresh(ctx, refresh.Value)

	assert.Nil(t, updated)
	var ce *domain.CompensationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, storeErr, ce.Cause)
	assert.Equal(t, persistErr, ce.CompensationErr)
	// Unwrap exposes the cause for classification.
	var se *domain.TokenStoreError
	assert.ErrorAs(t, err, &se)
}

// --- Revoke ---

func TestRevoke_Success(t *testing.T) {
	userRepo := new(mockUserRepository)
	authRepo := new(mockAuthenticationRepository)
	store := new(mockTokenStore)
	svc := newTestAuthService(userRepo, authRepo, store)
	ctx := context.Background()

	access, err := newTestCodec().Issue("user@asapp.com", domain.RoleUser, domain.TokenUseAccess, 5*time.Minute)
	require.NoError(t, err)

	record := staleRecord()
	store.On("AccessTokenExists", ctx, access.Value).Return(true, nil)
	authRepo.On("FindByAccessToken", ctx, access.Value).Return(record, nil)
	store.On("Delete", ctx, record.Pair).Return(nil)
	authRepo.On("DeleteByID", ctx, record.ID).Return(nil)

	err = svc.Revoke(ctx, access.Value)

	require.NoError(t, err)
	authRepo.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestRevoke_AbsentSession_IsIdempotentNoOp(t *testing.T) {
	userRepo := new(mockUserRepository)
	authRepo := new(mockAuthenticationRepository)
	store := new(mockTokenStore)
	svc := newTestAuthService(userRepo, authRepo, store)
	ctx := context.Background()

	access, err := newTestCodec().Issue("user@asapp.com", domain.RoleUser, domain.TokenUseAccess, 5*time.Minute)
	require.NoError(t, err)

	store.On("AccessTokenExists", ctx, access.Value).Return(false, nil)

	err = svc.Revoke(ctx, access.Value)

	assert.ErrorIs(t, err, domain.ErrAuthenticationNotFound)
	// No lookups, no deletes, no compensation.
	authRepo.AssertNotCalled(t, "FindByAccessToken", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestRevoke_RejectsRefreshToken(t *testing.T) {
	userRepo := new(mockUserRepository)
	authRepo := new(mockAuthenticationRepository)
	store := new(mockTokenStore)
	svc := newTestAuthService(userRepo, authRepo, store)

	refresh, err := newTestCodec().Issue("user@asapp.com", domain.RoleUser, domain.TokenUseRefresh, time.Hour)
	require.NoError(t, err)

	err = svc.Revoke(context.Background(), refresh.Value)

	assert.ErrorIs(t, err, domain.ErrUnexpectedTokenType)
	store.AssertNotCalled(t, "AccessTokenExists", mock.Anything, mock.Anything)
}

func TestRevoke_RecordDeleteFails_MarkersRestored(t *testing.T) {
	userRepo := new(mockUserRepository)
	authRepo := new(mockAuthenticationRepository)
	store := new(mockTokenStore)
	svc := newTestAuthService(userRepo, authRepo, store)
	ctx := context.Background()

	access, err := newTestCodec().Issue("user@asapp.com", domain.RoleUser, domain.TokenUseAccess, 5*time.Minute)
	require.NoError(t, err)

	record := staleRecord()
	persistErr := &domain.PersistenceError{Op: "delete authentication", Err: errors.New("connection refused")}

	store.On("AccessTokenExists", ctx, access.Value).Return(true, nil)
	authRepo.On("FindByAccessToken", ctx, access.Value).Return(record, nil)
	store.On("Delete", ctx, record.Pair).Return(nil)
	authRepo.On("DeleteByID", ctx, record.ID).Return(persistErr)
	// Compensation puts the markers back so the session stays visibly live.
	store.On("Save", ctx, record.Pair).Return(nil)

	err = svc.Revoke(ctx, access.Value)

	var pe *domain.PersistenceError
	assert.ErrorAs(t, err, &pe)
	var ce *domain.CompensationError
	assert.False(t, errors.As(err, &ce), "successful compensation must surface the original cause")

	authRepo.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestRevoke_CompensationFails_Escalates(t *testing.T) {
	userRepo := new(mockUserRepository)
	authRepo := new(mockAuthenticationRepository)
	store := new(mockTokenStore)
	svc := newTestAuthService(userRepo, authRepo, store)
	ctx := context.Background()

	access, err := newTestCodec().Issue("user@asapp.com", domain.RoleUser, domain.TokenUseAccess, 5*time.Minute)
	require.NoError(t, err)

	record := staleRecord()
	persistErr := &domain.PersistenceError{Op: "delete authentication", Err: errors.New("connection refused")}
	storeErr := &domain.TokenStoreError{Op: "save token pair", Err: errors.New("redis down")}

	store.On("AccessTokenExists", ctx, access.Value).Return(true, nil)
	authRepo.On("FindByAccessToken", ctx, access.Value).Return(record, nil)
	store.On("Delete", ctx, record.Pair).Return(nil)
	authRepo.On("DeleteByID", ctx, record.ID).Return(persistErr)
	store.On("Save", ctx, record.Pair).Return(storeErr)

	err = svc.Revoke(ctx, access.Value)

	var ce *domain.CompensationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "revoke", ce.Op)
	assert.Equal(t, persistErr, ce.Cause)
	assert.Equal(t, storeErr, ce.CompensationErr)
}
