// Package appctx carries request-scoped identity through context.Context.
package appctx

import "context"

// UserContext describes the authenticated user for the current request.
type UserContext struct {
	UserID   string
	Name     string
	Username string
	Role     string
}

// IsAdmin reports whether the user carries the admin role.
func (u *UserContext) IsAdmin() bool {
	return u != nil && u.Role == "admin"
}

type userKey struct{}

// WithUser adds the user to context.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// GetUser returns the user from context, or nil when unauthenticated.
func GetUser(ctx context.Context) *UserContext {
	if u, ok := ctx.Value(userKey{}).(*UserContext); ok {
		return u
	}
	return nil
}

// RecorderName returns the display name to stamp on records created in
// this request. Falls back to username, then to "system" for jobs and
// seed scripts that run without a user.
func RecorderName(ctx context.Context) string {
	u := GetUser(ctx)
	switch {
	case u == nil:
		return "system"
	case u.Name != "":
		return u.Name
	default:
		return u.Username
	}
}

type requestIDKey struct{}

// WithRequestID adds the request id to context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// GetRequestID returns the request id from context, or empty string.
func GetRequestID(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey{}).(string); ok {
		return v
	}
	return ""
}
