package httpapi

import (
	"context"
	"fmt"
	"time"
)

// Token is an opaque bearer token with an optional expiry and granted scopes.
type Token struct {
	AccessToken string
	ExpiresAt   time.Time // zero when the token does not expire
	Scopes      []string
}

// Expired reports whether the token has a known expiry that is not after now.
func (t Token) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && !now.Before(t.ExpiresAt)
}

// HasScope reports whether scope was granted.
func (t Token) HasScope(scope string) bool {
	for _, s := range t.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// TokenSource supplies the bearer token attached to every request.
type TokenSource interface {
	Token(ctx context.Context) (Token, error)
}

// StaticToken serves the same token on every call.
type StaticToken Token

// Token implements TokenSource.
func (s StaticToken) Token(context.Context) (Token, error) {
	if s.AccessToken == "" {
		return Token{}, &ConfigError{Component: "token", Reason: "empty access token"}
	}
	return Token(s), nil
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func(ctx context.Context) (Token, error)

// Token implements TokenSource.
func (f TokenFunc) Token(ctx context.Context) (Token, error) { return f(ctx) }

// BaseURL renders the API base URL for a tenant and environment.
func BaseURL(tenant, env string) string {
	return fmt.Sprintf("https://%s.%s.example.net", tenant, env)
}
