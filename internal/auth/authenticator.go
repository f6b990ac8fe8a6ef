// Package auth provides request authenticators for the SDK transport.
package auth

import (
	"context"
	"net/http"
)

// Authenticator attaches credentials to an outgoing request. Implementations
// must be safe for concurrent use: the transport calls Authenticate from
// arbitrary goroutines.
type Authenticator interface {
	Authenticate(ctx context.Context, req *http.Request) error
}

// NoAuth sends no credentials.
type NoAuth struct{}

// NewNoAuth creates an authenticator that leaves requests untouched.
func NewNoAuth() *NoAuth {
	return &NoAuth{}
}

// Authenticate implements Authenticator.
func (a *NoAuth) Authenticate(_ context.Context, _ *http.Request) error {
	return nil
}

// BasicAuthenticator sends HTTP basic credentials on every request.
type BasicAuthenticator struct {
	username string
	password string
}

// NewBasicAuthenticator creates a basic-auth authenticator.
func NewBasicAuthenticator(username, password string) *BasicAuthenticator {
	return &BasicAuthenticator{username: username, password: password}
}

// Authenticate implements Authenticator.
func (a *BasicAuthenticator) Authenticate(_ context.Context, req *http.Request) error {
	req.SetBasicAuth(a.username, a.password)

	return nil
}
