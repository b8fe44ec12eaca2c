package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"freight-cost-approval/internal/config"
	"freight-cost-approval/internal/domain"
	"freight-cost-approval/internal/mocks"
	"freight-cost-approval/internal/repository"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: time.Hour,
	}
}

func activeUser(t *testing.T, password string) *domain.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &domain.User{
		ID:           uuid.New(),
		Email:        "bruno@transportes.com.br",
		PasswordHash: string(hash),
		FullName:     "Bruno Approver",
		Role:         string(domain.RoleApprover),
		IsActive:     true,
	}
}

func TestLogin_Success(t *testing.T) {
	userRepo := new(mocks.UserRepository)
	sessionRepo := new(mocks.SessionRepository)
	svc := NewService(userRepo, sessionRepo, testConfig())
	ctx := context.Background()
	user := activeUser(t, "s3cret-pass")

	userRepo.On("GetByEmail", ctx, "bruno@transportes.com.br").Return(user, nil).Once()
	sessionRepo.On("Create", ctx, mock.AnythingOfType("*repository.Session")).Return(nil).Once()

	got, tokens, err := svc.Login(ctx, domain.LoginInput{Email: " Bruno@Transportes.com.br ", Password: "s3cret-pass"})

	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.Equal(t, int64(900), tokens.ExpiresIn)

	claims, err := svc.ValidateAccessToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "approver", claims.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	userRepo := new(mocks.UserRepository)
	svc := NewService(userRepo, new(mocks.SessionRepository), testConfig())
	ctx := context.Background()

	userRepo.On("GetByEmail", ctx, "bruno@transportes.com.br").Return(activeUser(t, "right-pass"), nil).Once()

	_, _, err := svc.Login(ctx, domain.LoginInput{Email: "bruno@transportes.com.br", Password: "wrong-pass"})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownUser(t *testing.T) {
	userRepo := new(mocks.UserRepository)
	svc := NewService(userRepo, new(mocks.SessionRepository), testConfig())
	ctx := context.Background()

	userRepo.On("GetByEmail", ctx, "ghost@example.com").Return(nil, nil).Once()

	_, _, err := svc.Login(ctx, domain.LoginInput{Email: "ghost@example.com", Password: "whatever1"})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_Inactive(t *testing.T) {
	userRepo := new(mocks.UserRepository)
	svc := NewService(userRepo, new(mocks.SessionRepository), testConfig())
	ctx := context.Background()
	user := activeUser(t, "s3cret-pass")
	user.IsActive = false

	userRepo.On("GetByEmail", ctx, user.Email).Return(user, nil).Once()

	_, _, err := svc.Login(ctx, domain.LoginInput{Email: user.Email, Password: "s3cret-pass"})

	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestRefreshToken_Rotates(t *testing.T) {
	userRepo := new(mocks.UserRepository)
	sessionRepo := new(mocks.SessionRepository)
	svc := NewService(userRepo, sessionRepo, testConfig())
	ctx := context.Background()
	user := activeUser(t, "s3cret-pass")
	session := &repository.Session{ID: uuid.New(), UserID: user.ID}

	sessionRepo.On("GetByTokenHash", ctx, hashToken("old-token")).Return(session, nil).Once()
	userRepo.On("GetByID", ctx, user.ID).Return(user, nil).Once()
	sessionRepo.On("Revoke", ctx, session.ID).Return(nil).Once()
	sessionRepo.On("Create", ctx, mock.AnythingOfType("*repository.Session")).Return(nil).Once()

	tokens, err := svc.RefreshToken(ctx, "old-token")

	require.NoError(t, err)
	assert.NotEqual(t, "old-token", tokens.RefreshToken)
	sessionRepo.AssertExpectations(t)
}

func TestRefreshToken_Unknown(t *testing.T) {
	sessionRepo := new(mocks.SessionRepository)
	svc := NewService(new(mocks.UserRepository), sessionRepo, testConfig())
	ctx := context.Background()

	sessionRepo.On("GetByTokenHash", ctx, hashToken("nope")).Return(nil, nil).Once()

	_, err := svc.RefreshToken(ctx, "nope")

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateAccessToken_WrongSecret(t *testing.T) {
	userRepo := new(mocks.UserRepository)
	sessionRepo := new(mocks.SessionRepository)
	issuer := NewService(userRepo, sessionRepo, testConfig())
	ctx := context.Background()
	user := activeUser(t, "s3cret-pass")

	userRepo.On("GetByEmail", ctx, user.Email).Return(user, nil).Once()
	sessionRepo.On("Create", ctx, mock.Anything).Return(nil).Once()

	_, tokens, err := issuer.Login(ctx, domain.LoginInput{Email: user.Email, Password: "s3cret-pass"})
	require.NoError(t, err)

	other := testConfig()
	other.JWTSecret = "another-secret"
	verifier := NewService(userRepo, sessionRepo, other)

	_, err = verifier.ValidateAccessToken(tokens.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
