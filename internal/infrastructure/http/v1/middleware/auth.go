package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"folio/internal/core/apperror"
	appctx "folio/internal/core/context"
)

// TokenValidator validates bearer tokens.
type TokenValidator interface {
	ValidateToken(tokenString string) (*appctx.AdminContext, error)
}

// Auth requires a valid bearer token and puts the admin into the context.
func Auth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
			abortUnauthorized(c, "invalid authorization header format")
			return
		}

		admin, err := validator.ValidateToken(strings.TrimSpace(token))
		if err != nil {
			abortUnauthorized(c, "invalid token")
			return
		}

		c.Request = c.Request.WithContext(appctx.WithAdmin(c.Request.Context(), admin))
		c.Set("admin", admin.Email)

		c.Next()
	}
}

// Deny rejects every request. Used for admin routes when no admin account
// is configured.
func Deny() gin.HandlerFunc {
	return func(c *gin.Context) {
		_ = c.Error(apperror.NewForbidden("admin access is not configured"))
		c.Abort()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	_ = c.Error(apperror.NewUnauthorized(message))
	c.Abort()
}
