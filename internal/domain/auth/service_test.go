package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"folio/internal/core/apperror"
)

func newTestService(t *testing.T) (*Service, *JWTService) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	jwtSvc := NewJWTService(DefaultJWTConfig("test-secret"))
	svc := NewService(Admin{Email: "Editor@Example.com", PasswordHash: string(hash)}, jwtSvc, ServiceConfig{
		MaxLoginAttempts: 3,
		LockDuration:     time.Minute,
	})
	return svc, jwtSvc
}

func TestLogin_IssuesValidToken(t *testing.T) {
	svc, jwtSvc := newTestService(t)

	tok, err := svc.Login(context.Background(), Credentials{Email: " editor@example.com ", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", tok.TokenType)

	admin, err := jwtSvc.ValidateToken(tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "editor@example.com", admin.Email)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Login(context.Background(), Credentials{Email: "editor@example.com", Password: "nope"})
	require.Error(t, err)
	assert.Equal(t, apperror.CodeUnauthorized, mustAppErr(t, err).Code)
}

func TestLogin_LocksAfterRepeatedFailures(t *testing.T) {
	svc, _ := newTestService(t)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	ctx := context.Background()

	for range 3 {
		_, err := svc.Login(ctx, Credentials{Email: "editor@example.com", Password: "bad"})
		require.Error(t, err)
	}

	_, err := svc.Login(ctx, Credentials{Email: "editor@example.com", Password: "s3cret"})
	assert.Equal(t, apperror.CodeForbidden, mustAppErr(t, err).Code)

	now = now.Add(2 * time.Minute)
	_, err = svc.Login(ctx, Credentials{Email: "editor@example.com", Password: "s3cret"})
	assert.NoError(t, err)
}

func TestLogin_Validation(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Login(context.Background(), Credentials{Password: "x"})
	assert.True(t, apperror.IsValidation(err))
}

func TestValidateToken_RejectsForeignSecret(t *testing.T) {
	other := NewJWTService(DefaultJWTConfig("other-secret"))
	tok, _, err := other.GenerateAccessToken("editor", "editor@example.com")
	require.NoError(t, err)

	_, err = NewJWTService(DefaultJWTConfig("test-secret")).ValidateToken(tok)
	assert.Error(t, err)
}

func mustAppErr(t *testing.T, err error) *apperror.AppError {
	t.Helper()
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok, "expected AppError, got %v", err)
	return appErr
}
