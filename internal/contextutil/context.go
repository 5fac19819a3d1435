package contextutil

import (
	"context"

	"edgegate/internal/auth"
)

// Key is a type-safe key for context values
type Key string

const (
	// IdentityKey is the key for the identity
	IdentityKey Key = "context:identity"

	// AuthTypeKey is the key for the authentication type
	AuthTypeKey Key = "context:auth_type"
)

// WithIdentity adds an identity to a context
func WithIdentity(ctx context.Context, identity *auth.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}

// GetIdentity retrieves an identity from a context
func GetIdentity(ctx context.Context) *auth.Identity {
	if identity, ok := ctx.Value(IdentityKey).(*auth.Identity); ok {
		return identity
	}
	return nil
}

// WithAuthType adds an authentication type to a context
func WithAuthType(ctx context.Context, authType auth.AuthType) context.Context {
	return context.WithValue(ctx, AuthTypeKey, authType)
}

// GetAuthType retrieves an authentication type from a context
func GetAuthType(ctx context.Context) auth.AuthType {
	if authType, ok := ctx.Value(AuthTypeKey).(auth.AuthType); ok {
		return authType
	}
	return ""
}
