package middleware

import "context"

// ContextKey is a private key type to avoid context collisions.
type ContextKey string

const (
	// UserIDCtxKey holds the authenticated user's ID.
	UserIDCtxKey = ContextKey("user_id")
	// UserNameCtxKey holds the authenticated user's display name.
	UserNameCtxKey = ContextKey("user_name")
)

// UserIDFromContext extracts the authenticated user ID set by JWTAuth.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(UserIDCtxKey).(string)
	return id, ok && id != ""
}

// UserNameFromContext extracts the authenticated user's display name.
func UserNameFromContext(ctx context.Context) string {
	name, _ := ctx.Value(UserNameCtxKey).(string)
	return name
}
