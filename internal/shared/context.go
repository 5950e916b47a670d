package shared

import "context"

type adminIDContextKey struct{}

// ContextWithAdminID stores the authenticated admin's user id in context.
func ContextWithAdminID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, adminIDContextKey{}, id)
}

// AdminIDFromContext extracts the admin user id, zero when unauthenticated.
func AdminIDFromContext(ctx context.Context) int64 {
	id, _ := ctx.Value(adminIDContextKey{}).(int64)
	return id
}
