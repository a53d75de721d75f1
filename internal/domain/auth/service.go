package auth

import (
	"context"
	"strings"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
	"golang.org/x/crypto/bcrypt"

	"folio/internal/core/apperror"
	"folio/pkg/logger"
)

// ServiceConfig holds auth service configuration.
type ServiceConfig struct {
	MaxLoginAttempts int
	LockDuration     time.Duration
}

// DefaultServiceConfig returns default configuration.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		MaxLoginAttempts: 5,
		LockDuration:     15 * time.Minute,
	}
}

// Service authenticates the configured editor.
type Service struct {
	admin      Admin
	jwtService *JWTService
	config     ServiceConfig
	attempts   *xsync.MapOf[string, loginAttempts]
	now        func() time.Time
}

// NewService creates a new auth service.
func NewService(admin Admin, jwtService *JWTService, config ServiceConfig) *Service {
	return &Service{
		admin:      admin,
		jwtService: jwtService,
		config:     config,
		attempts:   xsync.NewMapOf[string, loginAttempts](),
		now:        time.Now,
	}
}

// HashPassword returns the bcrypt hash to put in configuration.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Login checks creds against the configured editor and issues a token.
func (s *Service) Login(ctx context.Context, creds Credentials) (*Token, error) {
	email := strings.ToLower(strings.TrimSpace(creds.Email))
	if email == "" {
		return nil, apperror.NewValidation("email is required").WithDetail("field", "email")
	}
	if creds.Password == "" {
		return nil, apperror.NewValidation("password is required").WithDetail("field", "password")
	}

	now := s.now()
	if a, ok := s.attempts.Load(email); ok && a.locked(now) {
		return nil, apperror.NewForbidden("too many failed attempts, try again later").
			WithDetail("lockedUntil", a.lockedUntil)
	}

	if s.admin.PasswordHash == "" || email != strings.ToLower(s.admin.Email) ||
		bcrypt.CompareHashAndPassword([]byte(s.admin.PasswordHash), []byte(creds.Password)) != nil {
		s.attempts.Compute(email, func(old loginAttempts, _ bool) (loginAttempts, bool) {
			return old.recordFailure(s.config.MaxLoginAttempts, s.config.LockDuration, now), false
		})
		logger.Warn(ctx, "failed login", "email", email)
		return nil, apperror.NewUnauthorized("invalid credentials")
	}

	s.attempts.Delete(email)

	access, expiresAt, err := s.jwtService.GenerateAccessToken(email, email)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	logger.Info(ctx, "editor logged in", "email", email)

	return &Token{
		AccessToken: access,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
	}, nil
}
