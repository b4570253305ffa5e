package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/identity"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/rwbiz/backend/internal/infrastructure/auth"
	"github.com/rwbiz/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]identity.User, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

type recordingPublisher struct {
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

type authFixture struct {
	svc       *AuthService
	repo      *MockUserRepository
	blacklist *auth.InMemoryTokenBlacklist
	publisher *recordingPublisher
}

func newAuthFixture() *authFixture {
	repo := new(MockUserRepository)
	jwtSvc := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "rwbiz-test",
	})
	blacklist := auth.NewInMemoryTokenBlacklist()
	publisher := &recordingPublisher{}
	return &authFixture{
		svc:       NewAuthService(repo, jwtSvc, blacklist, publisher, zap.NewNop()),
		repo:      repo,
		blacklist: blacklist,
		publisher: publisher,
	}
}

func newTestUser(t *testing.T, password string) *identity.User {
	t.Helper()
	user, err := identity.NewUser("founder@example.rw", password, "Aline Uwase")
	require.NoError(t, err)
	user.ClearDomainEvents()
	return user
}

func TestAuthService_Register(t *testing.T) {
	f := newAuthFixture()
	f.repo.On("ExistsByEmail", mock.Anything, "founder@example.rw").Return(false, nil)
	f.repo.On("Save", mock.Anything, mock.AnythingOfType("*identity.User")).Return(nil)

	info, err := f.svc.Register(context.Background(), RegisterInput{
		Email:    " Founder@Example.RW ",
		Password: "s3cret-pass",
		FullName: "Aline Uwase",
		Phone:    "+250788000000",
	})

	require.NoError(t, err)
	assert.Equal(t, "founder@example.rw", info.Email)
	assert.Equal(t, "+250788000000", info.Phone)
	require.Len(t, f.publisher.events, 1)
	f.repo.AssertExpectations(t)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	f := newAuthFixture()
	f.repo.On("ExistsByEmail", mock.Anything, "founder@example.rw").Return(true, nil)

	_, err := f.svc.Register(context.Background(), RegisterInput{
		Email: "founder@example.rw", Password: "s3cret-pass", FullName: "Aline",
	})

	assert.True(t, errors.Is(err, shared.ErrAlreadyExists))
	f.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAuthService_Register_ShortPassword(t *testing.T) {
	f := newAuthFixture()
	f.repo.On("ExistsByEmail", mock.Anything, "founder@example.rw").Return(false, nil)

	_, err := f.svc.Register(context.Background(), RegisterInput{
		Email: "founder@example.rw", Password: "short", FullName: "Aline",
	})

	require.Error(t, err)
	f.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAuthService_Login(t *testing.T) {
	f := newAuthFixture()
	user := newTestUser(t, "s3cret-pass")
	f.repo.On("FindByEmail", mock.Anything, "founder@example.rw").Return(user, nil)
	f.repo.On("Save", mock.Anything, user).Return(nil)

	result, err := f.svc.Login(context.Background(), LoginInput{Email: "founder@example.rw", Password: "s3cret-pass"})

	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, "Bearer", result.TokenType)
	assert.Equal(t, user.ID, result.User.ID)
	assert.NotNil(t, user.LastLoginAt)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	f := newAuthFixture()
	user := newTestUser(t, "s3cret-pass")
	f.repo.On("FindByEmail", mock.Anything, "founder@example.rw").Return(user, nil)

	_, err := f.svc.Login(context.Background(), LoginInput{Email: "founder@example.rw", Password: "wrong-pass"})

	assert.True(t, errors.Is(err, shared.ErrUnauthorized))
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	f := newAuthFixture()
	f.repo.On("FindByEmail", mock.Anything, "ghost@example.rw").Return(nil, shared.NotFound("User"))

	_, err := f.svc.Login(context.Background(), LoginInput{Email: "ghost@example.rw", Password: "whatever1"})

	assert.True(t, errors.Is(err, shared.ErrUnauthorized))
}

func TestAuthService_Login_Disabled(t *testing.T) {
	f := newAuthFixture()
	user := newTestUser(t, "s3cret-pass")
	require.NoError(t, user.Disable())
	f.repo.On("FindByEmail", mock.Anything, "founder@example.rw").Return(user, nil)

	_, err := f.svc.Login(context.Background(), LoginInput{Email: "founder@example.rw", Password: "s3cret-pass"})

	assert.True(t, errors.Is(err, shared.ErrForbidden))
}

func TestAuthService_RefreshRotatesToken(t *testing.T) {
	f := newAuthFixture()
	user := newTestUser(t, "s3cret-pass")
	f.repo.On("FindByEmail", mock.Anything, user.Email).Return(user, nil)
	f.repo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	f.repo.On("Save", mock.Anything, user).Return(nil)
	ctx := context.Background()

	login, err := f.svc.Login(ctx, LoginInput{Email: user.Email, Password: "s3cret-pass"})
	require.NoError(t, err)

	refreshed, err := f.svc.RefreshToken(ctx, RefreshTokenInput{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	// the old refresh token cannot be replayed
	_, err = f.svc.RefreshToken(ctx, RefreshTokenInput{RefreshToken: login.RefreshToken})
	assert.True(t, errors.Is(err, shared.ErrUnauthorized))
}

func TestAuthService_Refresh_InvalidToken(t *testing.T) {
	f := newAuthFixture()

	_, err := f.svc.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: "garbage"})

	assert.True(t, errors.Is(err, shared.ErrUnauthorized))
}

func TestAuthService_LogoutRevokesAccessToken(t *testing.T) {
	f := newAuthFixture()
	user := newTestUser(t, "s3cret-pass")
	f.repo.On("FindByEmail", mock.Anything, user.Email).Return(user, nil)
	f.repo.On("Save", mock.Anything, user).Return(nil)
	ctx := context.Background()

	login, err := f.svc.Login(ctx, LoginInput{Email: user.Email, Password: "s3cret-pass"})
	require.NoError(t, err)
	claims, err := f.svc.ValidateAccessToken(ctx, login.AccessToken)
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx, LogoutInput{
		UserID:       user.ID,
		TokenJTI:     claims.ID,
		TokenTTL:     claims.RemainingTTL(),
		RefreshToken: login.RefreshToken,
	}))

	_, err = f.svc.ValidateAccessToken(ctx, login.AccessToken)
	assert.ErrorIs(t, err, auth.ErrTokenRevoked)
	_, err = f.svc.RefreshToken(ctx, RefreshTokenInput{RefreshToken: login.RefreshToken})
	assert.Error(t, err)
}

func TestAuthService_ChangePassword(t *testing.T) {
	f := newAuthFixture()
	user := newTestUser(t, "s3cret-pass")
	f.repo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	f.repo.On("Save", mock.Anything, user).Return(nil)

	err := f.svc.ChangePassword(context.Background(), ChangePasswordInput{
		UserID: user.ID, OldPassword: "s3cret-pass", NewPassword: "n3w-passw0rd",
	})

	require.NoError(t, err)
	assert.True(t, user.VerifyPassword("n3w-passw0rd"))
	invalidated, err := f.blacklist.IsRevoked(context.Background(), "", user.ID.String(), time.Now().Add(-time.Minute))
	require.NoError(t, err)
	assert.True(t, invalidated)
}

func TestAuthService_ChangePassword_WrongCurrent(t *testing.T) {
	f := newAuthFixture()
	user := newTestUser(t, "s3cret-pass")
	f.repo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	err := f.svc.ChangePassword(context.Background(), ChangePasswordInput{
		UserID: user.ID, OldPassword: "nope-nope", NewPassword: "n3w-passw0rd",
	})

	assert.True(t, errors.Is(err, shared.ErrUnauthorized))
	f.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	f := newAuthFixture()
	user := newTestUser(t, "s3cret-pass")
	f.repo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	f.repo.On("Save", mock.Anything, user).Return(nil)

	info, err := f.svc.UpdateProfile(context.Background(), UpdateProfileInput{
		UserID: user.ID, FullName: "Aline U.", Phone: "+250788111111",
	})

	require.NoError(t, err)
	assert.Equal(t, "Aline U.", info.FullName)
	assert.Equal(t, "+250788111111", info.Phone)
}
