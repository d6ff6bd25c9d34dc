// Package logattr holds slog attribute helpers shared by the connector
// packages. Helpers return an empty Attr for zero inputs so call sites need
// no nil checks.
package logattr

import (
	"log/slog"
	"time"
)

// Error records err under "error".
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Latency records a request duration.
func Latency(d time.Duration) slog.Attr {
	return slog.Duration("latency", d)
}

// RequestID records the id sent in the X-Request-ID header.
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

// Component names the sub-API emitting the record.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Version records the API version a sub-API was resolved for.
func Version(v string) slog.Attr {
	if v == "" {
		return slog.Attr{}
	}
	return slog.String("version", v)
}

// Status records an HTTP status code.
func Status(code int) slog.Attr {
	return slog.Int("status", code)
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
