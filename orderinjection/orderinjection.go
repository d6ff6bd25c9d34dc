// Package orderinjection submits orders to the order injection API after
// validating them against the order payload schema.
package orderinjection

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	nsconnector "github.com/reoring/nsconnector"
	"github.com/reoring/nsconnector/httpapi"
	"github.com/reoring/nsconnector/internal/logattr"
)

// Component names this sub-API in configuration errors and logs.
const Component = "order_injection"

// FulfillOrderPath is the create-order endpoint.
const FulfillOrderPath = "/v0/d/fulfill_order"

// API is implemented by every supported version.
type API interface {
	Version() string
	ValidateCreateOrderPayload(payload any) (nsconnector.Result, error)
	CreateOrder(ctx context.Context, payload any, out any) error
}

// Option configures a version implementation.
type Option func(*options)

type options struct {
	log *slog.Logger
}

// WithLogger sets the logger used for submission records.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

var registry = map[string]func(httpapi.Session, options) API{
	"0.1": func(s httpapi.Session, o options) API { return &V01{session: s, log: o.log} },
}

// Versions lists the supported API versions.
func Versions() []string {
	out := make([]string, 0, len(registry))
	for v := range registry {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// New resolves the implementation for version once. An unknown version
// returns *httpapi.ConfigError.
func New(version string, session httpapi.Session, opts ...Option) (API, error) {
	ctor, err := httpapi.Lookup(Component, registry, version)
	if err != nil {
		return nil, err
	}
	o := options{log: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return ctor(session, o), nil
}

// ValidationError is returned by CreateOrder when the payload does not
// satisfy the order schema. Nothing is sent in that case.
type ValidationError struct {
	Result nsconnector.Result
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("orderinjection: invalid order payload: %v", e.Result.Err())
}

// Unwrap exposes the underlying nsconnector.Issues.
func (e *ValidationError) Unwrap() error { return e.Result.Err() }

// V01 implements version 0.1 of the order injection API.
type V01 struct {
	session httpapi.Session
	log     *slog.Logger
}

// Version implements API.
func (*V01) Version() string { return "0.1" }

// ValidateCreateOrderPayload evaluates payload against a freshly built
// OrderSchema. The error is non-nil only when payload is not an object.
func (*V01) ValidateCreateOrderPayload(payload any) (nsconnector.Result, error) {
	return OrderSchema().Evaluate(payload)
}

// CreateOrder validates payload and posts it to the fulfill_order endpoint,
// decoding the response into out when out is non-nil.
func (v *V01) CreateOrder(ctx context.Context, payload any, out any) error {
	res, err := v.ValidateCreateOrderPayload(payload)
	if err != nil {
		return fmt.Errorf("orderinjection: %w", err)
	}
	if !res.Valid() {
		v.log.LogAttrs(ctx, slog.LevelInfo, "order payload rejected",
			logattr.Component(Component), logattr.Version(v.Version()),
			slog.Any("paths", res.Paths()))
		return &ValidationError{Result: res}
	}
	if v.session == nil {
		return &httpapi.ConfigError{Component: Component, Version: v.Version(), Reason: "no session configured"}
	}
	return v.session.Post(ctx, FulfillOrderPath, payload, out)
}
