// Package middleware validates JSON request bodies against a *dsl.Schema at
// HTTP boundaries. Framework adapters live in the ginmw and echomw modules
// and share Validate.
package middleware

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	json "github.com/goccy/go-json"

	nsconnector "github.com/reoring/nsconnector"
	"github.com/reoring/nsconnector/dsl"
	"github.com/reoring/nsconnector/source"
)

// DefaultMaxBytes bounds request bodies when Options.MaxBytes is zero.
const DefaultMaxBytes = 1 << 20

// Options controls request validation.
type Options struct {
	// MaxBytes caps the body size; zero uses DefaultMaxBytes.
	MaxBytes int64
	// Source is passed to the JSON decoder.
	Source source.Options
	// AllowDuplicateKeys accepts bodies with repeated object keys.
	AllowDuplicateKeys bool
}

// DefaultOptions returns the recommended options for HTTP JSON boundaries:
// duplicate keys are rejected.
func DefaultOptions() Options {
	return Options{MaxBytes: DefaultMaxBytes}
}

// Rejection describes why a request body was refused.
type Rejection struct {
	Status int
	Issues nsconnector.Issues
	Err    error
}

// Payload renders the rejection as a JSON response body.
func (r *Rejection) Payload() map[string]any {
	if len(r.Issues) > 0 {
		return ErrorPayload(r.Issues)
	}
	return map[string]any{"error": r.Err.Error()}
}

// Validate reads and validates the body of req. On success it returns the
// decoded object and leaves req.Body readable again. Otherwise the Rejection
// carries 400 for malformed bodies, 413 for oversized ones and 422 for
// schema violations.
func Validate(req *http.Request, s *dsl.Schema, opt Options) (map[string]any, *Rejection) {
	limit := opt.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	body, err := io.ReadAll(io.LimitReader(req.Body, limit+1))
	if err != nil {
		return nil, &Rejection{Status: http.StatusBadRequest, Err: fmt.Errorf("read body: %w", err)}
	}
	if int64(len(body)) > limit {
		return nil, &Rejection{Status: http.StatusRequestEntityTooLarge, Err: fmt.Errorf("body exceeds %d bytes", limit)}
	}
	req.Body = io.NopCloser(bytes.NewReader(body))
	doc, err := source.JSONBytes(body, opt.Source)
	if err != nil {
		if iss, ok := nsconnector.AsIssues(err); ok {
			return nil, &Rejection{Status: http.StatusBadRequest, Issues: iss}
		}
		return nil, &Rejection{Status: http.StatusBadRequest, Err: err}
	}
	m, ok := doc.Object()
	if !ok {
		return nil, &Rejection{Status: http.StatusBadRequest, Err: nsconnector.ErrNotObject}
	}
	res, err := s.Evaluate(m)
	if err != nil {
		return nil, &Rejection{Status: http.StatusBadRequest, Err: err}
	}
	var iss nsconnector.Issues
	if !opt.AllowDuplicateKeys {
		iss = append(iss, doc.Issues...)
	}
	iss = append(iss, res.Issues()...)
	if len(iss) > 0 {
		return nil, &Rejection{Status: http.StatusUnprocessableEntity, Issues: iss}
	}
	return m, nil
}

// ValidateJSON returns net/http middleware that validates request bodies
// against s and stores the decoded object in the request context.
func ValidateJSON(s *dsl.Schema, opt Options) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m, rej := Validate(r, s, opt)
			if rej != nil {
				WriteJSON(w, rej.Status, rej.Payload())
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithPayload(r.Context(), m)))
		})
	}
}

type ctxKeyPayload struct{}

// ContextWithPayload attaches a validated payload to ctx.
func ContextWithPayload(ctx context.Context, m map[string]any) context.Context {
	return context.WithValue(ctx, ctxKeyPayload{}, m)
}

// PayloadFromContext retrieves the payload stored by ValidateJSON.
func PayloadFromContext(ctx context.Context) (map[string]any, bool) {
	m, ok := ctx.Value(ctxKeyPayload{}).(map[string]any)
	return m, ok
}

// ErrorPayload shapes Issues for JSON responses.
func ErrorPayload(issues nsconnector.Issues) map[string]any {
	out := make([]map[string]any, len(issues))
	for i, it := range issues {
		e := map[string]any{"path": it.Path, "code": it.Code, "message": it.Message}
		if len(it.Params) > 0 {
			e["params"] = it.Params
		}
		out[i] = e
	}
	return map[string]any{"issues": out}
}

// WriteJSON writes v with status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
