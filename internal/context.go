package internal

import (
	"context"
	"time"
)

type ctxKey string

const (
	ContextMemberKey ctxKey = "memberID"
	ContextRoleKey   ctxKey = "memberRole"
)

func MemberIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if memberID, ok := ctx.Value(ContextMemberKey).(string); ok {
		return memberID
	}
	return ""
}

func RoleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if role, ok := ctx.Value(ContextRoleKey).(string); ok {
		return role
	}
	return ""
}

// ContextWithMember stores the acting member's id and role for downstream
// logging and audit.
func ContextWithMember(ctx context.Context, memberID, role string) context.Context {
	ctx = context.WithValue(ctx, ContextMemberKey, memberID)
	return context.WithValue(ctx, ContextRoleKey, role)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
