package logging

import (
	"log/slog"
	"net/url"
)

// RedactedURL wraps a url.URL for logging without exposing userinfo
type RedactedURL struct {
	url *url.URL
}

// LogValue implements slog.LogValuer
func (u RedactedURL) LogValue() slog.Value {
	if u.url == nil {
		return slog.StringValue("")
	}
	return slog.StringValue(u.url.Redacted())
}

// RedactURL returns a safely loggable URL value
func RedactURL(u *url.URL) RedactedURL {
	return RedactedURL{url: u}
}

// Masked renders a credential-like value as its length only, so logs can
// tell an empty username from a wrong one without leaking it.
type Masked string

// LogValue implements slog.LogValuer
func (m Masked) LogValue() slog.Value {
	if m == "" {
		return slog.StringValue("<empty>")
	}
	return slog.GroupValue(slog.Int("len", len(m)))
}
