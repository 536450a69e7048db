package log

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strings"
)

// MaskValue replaces any attribute value judged sensitive.
const MaskValue = "***REDACTED***"

// Verbose runs log full request detail, including the Authorization header
// and any per-target headers from the config file. Those regularly carry
// bearer tokens and API keys for the engine, so every record is scrubbed
// before it reaches the underlying handler.
//
// Two rules decide whether an attribute is masked:
//   - its key names a credential (exact match or credential keyword), or
//   - its string value looks like a token regardless of key.

// credentialKeys are exact attribute keys that always carry secrets.
// Header names appear lowercased because keys are folded before lookup.
var credentialKeys = map[string]struct{}{
	"authorization":       {},
	"proxy-authorization": {},
	"cookie":              {},
	"set-cookie":          {},
	"x-api-key":           {},
	"x-auth-token":        {},
	"password":            {},
	"passwd":              {},
	"secret":              {},
	"token":               {},
	"auth_token":          {},
	"access_token":        {},
	"refresh_token":       {},
	"api_key":             {},
	"apikey":              {},
	"api-key":             {},
	"private_key":         {},
	"privatekey":          {},
	"secret_key":          {},
	"secretkey":           {},
	"session":             {},
	"session_id":          {},
	"sessionid":           {},
	"sid":                 {},
	"auth":                {},
	"credential":          {},
	"credentials":         {},
}

// credentialKeywords match as substrings of a key. The bare word "key" is
// deliberately absent: it would mask harmless names like "primary_key" or
// "metadata_key", and the specific forms are already in credentialKeys.
var credentialKeywords = []string{
	"password", "passwd", "secret", "token", "auth", "credential", "private",
}

// tokenPatterns recognize secret-shaped values independent of their key.
var tokenPatterns = []*regexp.Regexp{
	// JWT: three base64url segments
	regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`),
	// Authorization header values copied into a log attribute
	regexp.MustCompile(`(?i)^bearer\s+.+`),
	regexp.MustCompile(`(?i)^basic\s+[A-Za-z0-9+/=]+$`),
	// Opaque API keys: long unbroken alphanumeric runs
	regexp.MustCompile(`^[a-zA-Z0-9]{32,}$`),
	// PEM key material
	regexp.MustCompile(`(?i)-----BEGIN.*(PRIVATE|SECRET).*KEY-----`),
}

// SecureHandler is an slog.Handler that masks credential attributes before
// delegating to a wrapped handler.
type SecureHandler struct {
	next slog.Handler
}

// NewSecureHandler wraps next with credential masking. A nil next falls back
// to slog.Default().Handler().
func NewSecureHandler(next slog.Handler) *SecureHandler {
	if next == nil {
		next = slog.Default().Handler()
	}
	return &SecureHandler{next: next}
}

// Enabled delegates to the wrapped handler.
func (h *SecureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle rebuilds the record with masked attributes and forwards it.
func (h *SecureHandler) Handle(ctx context.Context, r slog.Record) error {
	clean := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		clean.AddAttrs(maskAttr(a))
		return true
	})
	return h.next.Handle(ctx, clean)
}

// WithAttrs masks the bound attributes before handing them down. Attributes
// bound via Logger.With never pass through Handle again, so this is the only
// chance to scrub them.
func (h *SecureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	masked := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		masked[i] = maskAttr(a)
	}
	return &SecureHandler{next: h.next.WithAttrs(masked)}
}

// WithGroup delegates the group to the wrapped handler. Group members are
// still individual attributes and get masked in Handle.
func (h *SecureHandler) WithGroup(name string) slog.Handler {
	return &SecureHandler{next: h.next.WithGroup(name)}
}

// maskAttr returns a masked copy of a when it carries a credential,
// descending into group values.
func maskAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		members := a.Value.Group()
		masked := make([]slog.Attr, len(members))
		for i, m := range members {
			masked[i] = maskAttr(m)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(masked...)}
	}

	if credentialKey(a.Key) {
		return slog.String(a.Key, MaskValue)
	}
	if a.Value.Kind() == slog.KindString && tokenShaped(a.Value.String()) {
		return slog.String(a.Key, MaskValue)
	}
	return a
}

// credentialKey reports whether key names a credential.
func credentialKey(key string) bool {
	k := strings.ToLower(key)
	if _, ok := credentialKeys[k]; ok {
		return true
	}
	for _, kw := range credentialKeywords {
		if strings.Contains(k, kw) {
			return true
		}
	}
	return false
}

// tokenShaped reports whether value matches a known secret format.
func tokenShaped(value string) bool {
	for _, p := range tokenPatterns {
		if p.MatchString(value) {
			return true
		}
	}
	return false
}

// NewSecureLogger returns a text-format slog.Logger writing to w with
// credential masking. verbose lowers the level from Warn to Debug.
func NewSecureLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewSecureHandler(slog.NewTextHandler(w, handlerOptions(verbose))))
}

// NewSecureJSONLogger is NewSecureLogger with JSON output, for piping run
// logs into structured log collection.
func NewSecureJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewSecureHandler(slog.NewJSONHandler(w, handlerOptions(verbose))))
}

func handlerOptions(verbose bool) *slog.HandlerOptions {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return &slog.HandlerOptions{Level: level}
}
