// Package context provides request-scoped values extraction.
package context

import (
	"context"
)

// AdminContext describes the authenticated editor behind a write request.
type AdminContext struct {
	Subject string
	Email   string
}

type adminContextKey struct{}

// WithAdmin adds AdminContext to context.
func WithAdmin(ctx context.Context, admin *AdminContext) context.Context {
	return context.WithValue(ctx, adminContextKey{}, admin)
}

// GetAdmin returns AdminContext from context.
func GetAdmin(ctx context.Context) *AdminContext {
	if v, ok := ctx.Value(adminContextKey{}).(*AdminContext); ok {
		return v
	}
	return nil
}

// GetAdminEmail returns the editor email or empty string for anonymous requests.
func GetAdminEmail(ctx context.Context) string {
	if a := GetAdmin(ctx); a != nil {
		return a.Email
	}
	return ""
}
