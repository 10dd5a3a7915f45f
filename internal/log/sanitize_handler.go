package log

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"strings"
)

// sensitiveKeys contains attribute keys that should always be masked.
// These keys commonly contain sensitive information that should not be
// logged.
var sensitiveKeys = map[string]bool{
	// HTTP headers
	"authorization":       true,
	"cookie":              true,
	"set-cookie":          true,
	"x-api-key":           true,
	"x-auth-token":        true,
	"proxy-authorization": true,

	// Authentication
	"password":      true,
	"passwd":        true,
	"secret":        true,
	"token":         true,
	"api_key":       true,
	"apikey":        true,
	"api-key":       true,
	"access_token":  true,
	"refresh_token": true,

	// Session
	"session":    true,
	"session_id": true,
	"sessionid":  true,
}

// sensitiveQueryParams are query parameter names scrubbed out of logged
// URLs. Scan targets are user-supplied and frequently carry session or
// token material in the query string.
var sensitiveQueryParams = map[string]bool{
	"token":        true,
	"access_token": true,
	"api_key":      true,
	"apikey":       true,
	"key":          true,
	"session":      true,
	"sid":          true,
	"auth":         true,
	"password":     true,
	"secret":       true,
	"signature":    true,
}

// MaskValue is the string used to replace sensitive values.
const MaskValue = "***REDACTED***"

// queryMaskValue replaces sensitive query parameter values. It avoids
// characters that url.Values.Encode would percent-escape.
const queryMaskValue = "REDACTED"

// SanitizeHandler wraps an slog.Handler to scrub credentials from log
// records. It masks attributes with sensitive key names and rewrites URL
// attributes to strip embedded userinfo and token-like query parameters
// before passing records to the underlying handler.
//
// Design decision: We use a handler wrapper rather than a custom logger
// because:
//  1. It integrates seamlessly with standard slog APIs
//  2. It works with any underlying handler (text, JSON, etc.)
//  3. Every component that accepts *slog.Logger gets scrubbing for free
type SanitizeHandler struct {
	// handler is the underlying slog handler that receives scrubbed records.
	handler slog.Handler
}

// NewSanitizeHandler creates a new SanitizeHandler wrapping the given
// handler. If handler is nil, the returned SanitizeHandler uses
// slog.Default().Handler().
func NewSanitizeHandler(handler slog.Handler) *SanitizeHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &SanitizeHandler{handler: handler}
}

// Enabled reports whether the handler handles records at the given level.
// It delegates to the underlying handler.
func (h *SanitizeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle scrubs the record's attributes and passes it to the underlying
// handler.
func (h *SanitizeHandler) Handle(ctx context.Context, r slog.Record) error {
	scrubbed := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		scrubbed.AddAttrs(h.sanitizeAttr(a))
		return true
	})
	return h.handler.Handle(ctx, scrubbed)
}

// WithAttrs returns a new handler with the given attributes added.
// Attributes are scrubbed before being added.
func (h *SanitizeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	scrubbed := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		scrubbed[i] = h.sanitizeAttr(a)
	}
	return &SanitizeHandler{handler: h.handler.WithAttrs(scrubbed)}
}

// WithGroup returns a new handler with the given group name.
func (h *SanitizeHandler) WithGroup(name string) slog.Handler {
	return &SanitizeHandler{handler: h.handler.WithGroup(name)}
}

// sanitizeAttr scrubs a single attribute, recursively handling groups.
func (h *SanitizeHandler) sanitizeAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		scrubbed := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			scrubbed[i] = h.sanitizeAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(scrubbed...)}
	}

	keyLower := strings.ToLower(a.Key)
	if sensitiveKeys[keyLower] {
		return slog.String(a.Key, MaskValue)
	}

	if a.Value.Kind() == slog.KindString && isURLKey(keyLower) {
		return slog.String(a.Key, ScrubURL(a.Value.String()))
	}
	return a
}

// isURLKey reports whether the attribute key names a URL-valued field.
func isURLKey(key string) bool {
	return key == "url" || strings.HasSuffix(key, "_url") || key == "target"
}

// ScrubURL removes embedded credentials from a URL string: userinfo is
// dropped entirely and token-like query parameters are masked. Strings
// that do not parse as URLs are returned unchanged.
func ScrubURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" {
		return rawURL
	}

	changed := false
	if u.User != nil {
		u.User = nil
		changed = true
	}

	query := u.Query()
	for name := range query {
		if sensitiveQueryParams[strings.ToLower(name)] {
			query.Set(name, queryMaskValue)
			changed = true
		}
	}
	if changed {
		u.RawQuery = query.Encode()
		return u.String()
	}
	return rawURL
}

// NewLogger creates a *slog.Logger with credential scrubbing and text
// output.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - verbose: If true, sets log level to Debug; otherwise Warn
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}
	return slog.New(NewSanitizeHandler(slog.NewTextHandler(w, opts)))
}

// NewJSONLogger creates a *slog.Logger with credential scrubbing that
// outputs JSON format. Useful for structured log aggregation.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}
	return slog.New(NewSanitizeHandler(slog.NewJSONHandler(w, opts)))
}
