package logger

import (
	"log/slog"
	"strings"
)

// Key patterns whose values are fully redacted.
var sensitiveKeyPatterns = []string{
	"password",
	"secret",
	"token",
	"key",
	"credential",
	"auth",
	"bearer",
}

const (
	redactedValue = "***REDACTED***"
	bearerPrefix  = "Bearer "
	jwtPrefix     = "eyJ"
)

// redactSensitive masks credential-shaped values and fully redacts values
// under sensitive key names. Groups are walked recursively.
func redactSensitive(a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindString:
		strVal := a.Value.String()
		if IsSensitiveValue(strVal) {
			return slog.String(a.Key, RedactString(strVal))
		}
		if strVal != "" && IsSensitiveKey(a.Key) {
			return slog.String(a.Key, redactedValue)
		}
	case slog.KindGroup:
		attrs := a.Value.Group()
		newAttrs := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			newAttrs[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(newAttrs...)}
	}
	return a
}

// maskValue keeps the first and last few characters of value.
func maskValue(value string) string {
	if len(value) <= 12 {
		return "***"
	}
	return value[:6] + "..." + value[len(value)-4:]
}

// isJWT reports whether value looks like a compact JWS.
func isJWT(value string) bool {
	return strings.HasPrefix(value, jwtPrefix) && strings.Count(value, ".") == 2
}

// RedactString masks a credential-shaped value and returns anything else
// unchanged.
func RedactString(value string) string {
	if rest, ok := strings.CutPrefix(value, bearerPrefix); ok {
		return bearerPrefix + maskValue(rest)
	}
	if isJWT(value) {
		return maskValue(value)
	}
	return value
}

// IsSensitiveKey checks if a key name suggests sensitive content.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	return false
}

// IsSensitiveValue reports whether value is a bearer header or a JWT.
func IsSensitiveValue(value string) bool {
	return strings.HasPrefix(value, bearerPrefix) || isJWT(value)
}
