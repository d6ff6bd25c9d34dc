// Package connector composes the session and the versioned sub-APIs from a
// configuration. Everything is built once in New and injected; nothing is
// created lazily afterwards.
package connector

import (
	"log/slog"

	"github.com/reoring/nsconnector/config"
	"github.com/reoring/nsconnector/httpapi"
	"github.com/reoring/nsconnector/orderinjection"
	"github.com/reoring/nsconnector/ordernotes"
)

// Connector bundles the sub-APIs of one tenant.
type Connector struct {
	Session        httpapi.Session
	OrderInjection orderinjection.API
	OrderNotes     ordernotes.API
}

// Option overrides a collaborator built from the configuration.
type Option func(*settings)

type settings struct {
	session httpapi.Session
	tokens  httpapi.TokenSource
	log     *slog.Logger
	httpOpt []httpapi.Option
}

// WithSession injects a ready Session; token and HTTP options are then unused.
func WithSession(s httpapi.Session) Option {
	return func(st *settings) { st.session = s }
}

// WithTokenSource replaces the static token from the configuration.
func WithTokenSource(ts httpapi.TokenSource) Option {
	return func(st *settings) { st.tokens = ts }
}

// WithLogger sets the logger shared by the session and sub-APIs.
func WithLogger(l *slog.Logger) Option {
	return func(st *settings) {
		if l != nil {
			st.log = l
		}
	}
}

// WithHTTPOptions passes extra options to the default session.
func WithHTTPOptions(opts ...httpapi.Option) Option {
	return func(st *settings) { st.httpOpt = append(st.httpOpt, opts...) }
}

// New builds a Connector. Unsupported sub-API versions fail here with
// *httpapi.ConfigError rather than on first use.
func New(cfg config.Config, opts ...Option) (*Connector, error) {
	st := settings{log: slog.Default()}
	for _, opt := range opts {
		opt(&st)
	}

	sess := st.session
	if sess == nil {
		tokens := st.tokens
		if tokens == nil {
			tokens = httpapi.StaticToken{AccessToken: cfg.Token}
		}
		hopts := append([]httpapi.Option{
			httpapi.WithTimeout(cfg.Timeout),
			httpapi.WithLogger(st.log),
		}, st.httpOpt...)
		c, err := httpapi.NewClient(cfg.BaseURL(), tokens, hopts...)
		if err != nil {
			return nil, err
		}
		sess = c
	}

	oi, err := orderinjection.New(cfg.OrderInjectionVersion, sess, orderinjection.WithLogger(st.log))
	if err != nil {
		return nil, err
	}
	on, err := ordernotes.New(cfg.OrderNotesVersion, sess, ordernotes.WithLogger(st.log))
	if err != nil {
		return nil, err
	}

	st.log.Info("connector ready",
		slog.String("tenant", cfg.Tenant),
		slog.String("env", cfg.Environment),
		slog.String("order_injection", oi.Version()),
		slog.String("order_notes", on.Version()))

	return &Connector{Session: sess, OrderInjection: oi, OrderNotes: on}, nil
}
