package auth

import "context"

type contextKey string

const identityContextKey contextKey = "github.com/soulart2024-ship-it/Tem/internal/platform/auth/identity"

// Identity carries the authenticated caller through the request context.
type Identity struct {
	UID   string
	Email string
	Name  string
}

// WithIdentity stores the identity on the context.
func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// IdentityFromContext retrieves the identity previously stored in context.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(*Identity)
	if !ok || identity == nil {
		return nil, false
	}
	return identity, true
}
