// Package userctx carries the authenticated owner's identity through request
// contexts. Every query and mutation is scoped to this ID.
package userctx

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
)

// UserContextKey is the request context key for the active user ID.
type UserContextKey struct{}

// WithUserID stores the user ID in the context.
func WithUserID(ctx context.Context, userID snowflake.ID) context.Context {
	return context.WithValue(ctx, UserContextKey{}, userID)
}

// UserIDFromContext returns the user ID from context, if set.
func UserIDFromContext(ctx context.Context) (snowflake.ID, bool) {
	if ctx == nil {
		return 0, false
	}

	switch typed := ctx.Value(UserContextKey{}).(type) {
	case snowflake.ID:
		return typed, true
	case int64:
		return snowflake.ID(typed), true
	case string:
		parsed, err := snowflake.ParseString(strings.TrimSpace(typed))
		if err == nil {
			return parsed, true
		}
	}
	return 0, false
}
