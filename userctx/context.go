package userctx

import "context"

// Context key type
type contextKey string

const usernameKey contextKey = "username"

// SetUsername adds the requester's username to the request context
func SetUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, usernameKey, username)
}

// GetUsername retrieves the requester's username from the request context.
// It returns "" for anonymous requests.
func GetUsername(ctx context.Context) string {
	if username, ok := ctx.Value(usernameKey).(string); ok {
		return username
	}
	return ""
}

// IsAuthenticated reports whether the context carries an identity
func IsAuthenticated(ctx context.Context) bool {
	return GetUsername(ctx) != ""
}
