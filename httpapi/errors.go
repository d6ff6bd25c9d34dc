package httpapi

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrTokenExpired is returned when the token source hands out a token whose
// expiry has passed. Tokens are never refreshed automatically.
var ErrTokenExpired = errors.New("httpapi: access token expired")

// ConfigError reports an unusable connector configuration, such as a
// sub-API version that has no implementation.
type ConfigError struct {
	Component string
	Version   string
	Supported []string
	Reason    string
}

func (e *ConfigError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("httpapi: %s: %s", e.Component, e.Reason)
	}
	return fmt.Sprintf("httpapi: %s: unsupported version %q (supported: %s)",
		e.Component, e.Version, strings.Join(e.Supported, ", "))
}

// StatusError is returned for responses outside the 2xx range.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       []byte
	RequestID  string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("httpapi: %s %s: status %d", e.Method, e.Path, e.StatusCode)
	if len(e.Body) > 0 {
		body := string(e.Body)
		if len(body) > 256 {
			body = body[:256] + "..."
		}
		msg += ": " + body
	}
	return msg
}

// Lookup resolves version in a closed registry of implementations. An
// unknown version yields a *ConfigError listing the supported ones.
func Lookup[T any](component string, registry map[string]T, version string) (T, error) {
	if impl, ok := registry[version]; ok {
		return impl, nil
	}
	supported := make([]string, 0, len(registry))
	for v := range registry {
		supported = append(supported, v)
	}
	sort.Strings(supported)
	var zero T
	return zero, &ConfigError{Component: component, Version: version, Supported: supported}
}
