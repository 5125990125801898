// internal/auth/context.go
//
// Principal helper for authenticated requests.
//
// Usage
// -----
//     ctx = auth.WithPrincipal(ctx, "staff")
//     who, ok := auth.Principal(ctx)   // "staff", true
//
// Notes
// -----
// • There is one shared management token, so the principal is a fixed
//   label.  Handlers use it for audit log fields only.
// • Two spaces after periods.

package auth

import "context"

// principalKey is unexported to avoid context-key collisions.
type principalKey struct{}

// WithPrincipal returns a new context carrying the caller label.
func WithPrincipal(ctx context.Context, who string) context.Context {
	return context.WithValue(ctx, principalKey{}, who)
}

// Principal extracts the caller label.  It returns ("", false) on
// unauthenticated requests.
func Principal(ctx context.Context) (string, bool) {
	who, ok := ctx.Value(principalKey{}).(string)
	return who, ok
}
