package log

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strings"
)

// MaskValue replaces redacted values.
const MaskValue = "***REDACTED***"

// secretKeys are attribute keys that always hold a secret.
var secretKeys = map[string]bool{
	"authorization":       true,
	"proxy-authorization": true,
	"cookie":              true,
	"set-cookie":          true,
	"x-api-key":           true,
	"api_key":             true,
	"apikey":              true,
	"hf_api_token":        true,
	"bearer":              true,
	"session":             true,
	"session_id":          true,
}

// secretKeywords mark a key as secret when contained anywhere in it.
// The bare word "key" is left out; it matches far too much.
var secretKeywords = []string{
	"password", "passwd", "secret", "token", "credential", "private",
}

// secretValues are values that are a credential in their entirety.
var secretValues = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^bearer\s+\S+$`),
	regexp.MustCompile(`(?i)^basic\s+[A-Za-z0-9+/=]+$`),
	regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`),
	regexp.MustCompile(`(?i)-----BEGIN.*(PRIVATE|SECRET).*KEY-----`),
}

// embeddedSecret is a credential inside a longer string and the part of it
// to keep.
type embeddedSecret struct {
	pattern *regexp.Regexp
	replace string
}

var embeddedSecrets = []embeddedSecret{
	// Hugging Face user access tokens.
	{regexp.MustCompile(`hf_[A-Za-z0-9]{16,}`), MaskValue},
	// Authorization header values echoed in messages.
	{regexp.MustCompile(`(?i)\b(bearer|basic)\s+[A-Za-z0-9._~+/=-]{8,}`), "${1} " + MaskValue},
	// Credentials in URL query strings.
	{regexp.MustCompile(`(?i)([?&](?:access_token|api_key|apikey|token|key|password)=)[^&#\s]+`), "${1}" + MaskValue},
	// Userinfo in URLs.
	{regexp.MustCompile(`(://[^/\s:@]+:)[^@\s/]+@`), "${1}" + MaskValue + "@"},
}

// RedactingHandler wraps an slog.Handler and masks credentials in the
// message and in every attribute, including nested groups and errors.
type RedactingHandler struct {
	handler slog.Handler
}

// NewRedactingHandler wraps handler. A nil handler wraps the default one.
func NewRedactingHandler(handler slog.Handler) *RedactingHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &RedactingHandler{handler: handler}
}

// Enabled delegates to the wrapped handler.
func (h *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle masks the record and passes it on.
func (h *RedactingHandler) Handle(ctx context.Context, r slog.Record) error {
	masked := slog.NewRecord(r.Time, r.Level, RedactString(r.Message), r.PC)
	r.Attrs(func(a slog.Attr) bool {
		masked.AddAttrs(redactAttr(a))
		return true
	})
	return h.handler.Handle(ctx, masked)
}

// WithAttrs masks attrs and returns a new handler carrying them.
func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	masked := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		masked[i] = redactAttr(a)
	}
	return &RedactingHandler{handler: h.handler.WithAttrs(masked)}
}

// WithGroup returns a new handler with the given group.
func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{handler: h.handler.WithGroup(name)}
}

func redactAttr(a slog.Attr) slog.Attr {
	v := a.Value.Resolve()

	if v.Kind() == slog.KindGroup {
		group := v.Group()
		masked := make([]slog.Attr, len(group))
		for i, ga := range group {
			masked[i] = redactAttr(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(masked...)}
	}

	if IsSecretKey(a.Key) {
		return slog.String(a.Key, MaskValue)
	}

	switch v.Kind() {
	case slog.KindString:
		return slog.String(a.Key, redactValue(v.String()))
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return slog.String(a.Key, redactValue(err.Error()))
		}
	}
	return slog.Attr{Key: a.Key, Value: v}
}

func redactValue(s string) string {
	for _, p := range secretValues {
		if p.MatchString(s) {
			return MaskValue
		}
	}
	return RedactString(s)
}

// IsSecretKey reports whether an attribute key names a credential.
func IsSecretKey(key string) bool {
	k := strings.ToLower(key)
	if secretKeys[k] {
		return true
	}
	for _, kw := range secretKeywords {
		if strings.Contains(k, kw) {
			return true
		}
	}
	return false
}

// RedactString masks credentials embedded in s and leaves the rest intact.
func RedactString(s string) string {
	for _, e := range embeddedSecrets {
		s = e.pattern.ReplaceAllString(s, e.replace)
	}
	return s
}

// NewRedactingLogger returns a text logger writing to w.
// verbose selects Debug level; otherwise Warn.
func NewRedactingLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewRedactingHandler(slog.NewTextHandler(w, handlerOptions(verbose))))
}

// NewRedactingJSONLogger is NewRedactingLogger with JSON output.
func NewRedactingJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewRedactingHandler(slog.NewJSONHandler(w, handlerOptions(verbose))))
}

func handlerOptions(verbose bool) *slog.HandlerOptions {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return &slog.HandlerOptions{Level: level}
}
