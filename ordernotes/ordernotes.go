// Package ordernotes manages order-level and item-level notes.
package ordernotes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sort"

	nsconnector "github.com/reoring/nsconnector"
	g "github.com/reoring/nsconnector/dsl"
	"github.com/reoring/nsconnector/httpapi"
	"github.com/reoring/nsconnector/internal/logattr"
	r "github.com/reoring/nsconnector/rules"
)

// Component names this sub-API in configuration errors and logs.
const Component = "order_notes"

// DefaultSourceType is used when a note does not name its source type.
const DefaultSourceType = "integration"

// ErrEmptyID is returned when an order, item or note id is empty.
var ErrEmptyID = errors.New("ordernotes: empty id")

// Note is the payload for creating or updating a note.
type Note struct {
	Text       string   `json:"text"`
	Source     string   `json:"source,omitempty"`
	SourceType string   `json:"source_type"`
	Tags       []string `json:"tags,omitempty"`
}

// payload renders n as the document sent on the wire, applying defaults.
func (n Note) payload() map[string]any {
	st := n.SourceType
	if st == "" {
		st = DefaultSourceType
	}
	m := map[string]any{"text": n.Text, "source_type": st}
	if n.Source != "" {
		m["source"] = n.Source
	}
	if n.Tags != nil {
		tags := make([]any, len(n.Tags))
		for i, t := range n.Tags {
			tags[i] = t
		}
		m["tags"] = tags
	}
	return m
}

// NoteSchema describes a note payload.
func NoteSchema() *g.Schema {
	return g.Object().
		Field("text", r.Required(), r.IsType(r.String), r.Length(1, 0)).
		Field("source", r.IsType(r.String)).
		Field("source_type", r.Required(), r.IsType(r.String), r.Length(1, 0)).
		Field("tags", r.IsType(r.List), r.Items(r.String)).
		MustBuild()
}

// ValidationError is returned when a note payload is rejected locally.
type ValidationError struct {
	Result nsconnector.Result
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("ordernotes: invalid note: %v", e.Result.Err())
}

// Unwrap exposes the underlying nsconnector.Issues.
func (e *ValidationError) Unwrap() error { return e.Result.Err() }

// API is implemented by every supported version.
type API interface {
	Version() string
	GetOrderNotes(ctx context.Context, orderID string, out any) error
	CreateOrderNote(ctx context.Context, orderID string, note Note, out any) error
	CreateItemNote(ctx context.Context, orderID, itemID string, note Note, out any) error
	UpdateNote(ctx context.Context, orderID, noteID string, note Note, out any) error
	DeleteNote(ctx context.Context, orderID, noteID string) error
}

// Option configures a version implementation.
type Option func(*options)

type options struct {
	log *slog.Logger
}

// WithLogger sets the logger for rejected-note records.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

var registry = map[string]func(httpapi.Session, options) API{
	"0.1.0": func(s httpapi.Session, o options) API { return &V010{session: s, log: o.log} },
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
	if session == nil {
		return nil, &httpapi.ConfigError{Component: Component, Version: version, Reason: "no session configured"}
	}
	o := options{log: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return ctor(session, o), nil
}

// V010 implements version 0.1.0 of the order notes API.
type V010 struct {
	session httpapi.Session
	log     *slog.Logger
}

// Version implements API.
func (*V010) Version() string { return "0.1.0" }

// GetOrderNotes lists the notes of an order.
func (v *V010) GetOrderNotes(ctx context.Context, orderID string, out any) error {
	p, err := notesPath(orderID)
	if err != nil {
		return err
	}
	return v.session.Get(ctx, p, out)
}

// CreateOrderNote attaches a note to an order.
func (v *V010) CreateOrderNote(ctx context.Context, orderID string, note Note, out any) error {
	p, err := notesPath(orderID)
	if err != nil {
		return err
	}
	body, err := v.validate(ctx, note)
	if err != nil {
		return err
	}
	return v.session.Post(ctx, p, body, out)
}

// CreateItemNote attaches a note to one item of an order.
func (v *V010) CreateItemNote(ctx context.Context, orderID, itemID string, note Note, out any) error {
	if orderID == "" || itemID == "" {
		return ErrEmptyID
	}
	body, err := v.validate(ctx, note)
	if err != nil {
		return err
	}
	p := fmt.Sprintf("/v0/d/orders/%s/items/%s/notes", url.PathEscape(orderID), url.PathEscape(itemID))
	return v.session.Post(ctx, p, body, out)
}

// UpdateNote replaces the content of an existing note.
func (v *V010) UpdateNote(ctx context.Context, orderID, noteID string, note Note, out any) error {
	p, err := notePath(orderID, noteID)
	if err != nil {
		return err
	}
	body, err := v.validate(ctx, note)
	if err != nil {
		return err
	}
	return v.session.Patch(ctx, p, body, out)
}

// DeleteNote removes a note.
func (v *V010) DeleteNote(ctx context.Context, orderID, noteID string) error {
	p, err := notePath(orderID, noteID)
	if err != nil {
		return err
	}
	return v.session.Delete(ctx, p, nil)
}

func (v *V010) validate(ctx context.Context, note Note) (map[string]any, error) {
	body := note.payload()
	res, err := NoteSchema().Evaluate(body)
	if err != nil {
		return nil, err
	}
	if !res.Valid() {
		v.log.LogAttrs(ctx, slog.LevelInfo, "note payload rejected",
			logattr.Component(Component), logattr.Version(v.Version()),
			slog.Any("paths", res.Paths()))
		return nil, &ValidationError{Result: res}
	}
	return body, nil
}

func notesPath(orderID string) (string, error) {
	if orderID == "" {
		return "", ErrEmptyID
	}
	return fmt.Sprintf("/v0/d/orders/%s/notes", url.PathEscape(orderID)), nil
}

func notePath(orderID, noteID string) (string, error) {
	if orderID == "" || noteID == "" {
		return "", ErrEmptyID
	}
	return fmt.Sprintf("/v0/d/orders/%s/notes/%s", url.PathEscape(orderID), url.PathEscape(noteID)), nil
}
