package auth

import (
	"net/http"
)

// AuthType represents the type of authentication used
type AuthType string

const (
	// AuthTypeBasic represents HTTP basic authentication against a shared credential
	AuthTypeBasic AuthType = "basic"
)

// Identity represents an authenticated identity
type Identity struct {
	// Subject is the authenticated username
	Subject string

	// Provider is the authenticator that produced this identity
	Provider string

	// Attributes contains additional identity information
	Attributes map[string]interface{}
}

// Authenticator defines the interface for authentication methods
type Authenticator interface {
	// Name returns the name of this authenticator
	Name() string

	// GetMiddleware returns an http.Handler middleware that performs authentication
	GetMiddleware(next http.Handler) http.Handler
}
