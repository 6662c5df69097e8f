package httpx

import "context"

type ctxKey string

const (
	CtxKeyUserID ctxKey = "user_id"
	CtxKeyRole   ctxKey = "role"
)

// ContextWithIdentity stores the resolved caller identity for downstream
// handlers.
func ContextWithIdentity(ctx context.Context, userID, role string) context.Context {
	ctx = context.WithValue(ctx, CtxKeyUserID, userID)
	ctx = context.WithValue(ctx, CtxKeyRole, role)
	return ctx
}

// UserIDFromContext returns the resolved user id, or "" when the request is
// anonymous.
func UserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyUserID).(string); ok {
		return v
	}
	return ""
}

// RoleFromContext returns the resolved role string, or "" when the request is
// anonymous.
func RoleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyRole).(string); ok {
		return v
	}
	return ""
}
