package logger

import (
	"log/slog"
	"net/url"
	"strings"
)

var sensitiveParams = []string{"password", "token", "secret", "auth", "email"}

// MaskEmail keeps the first character of the local part and the TLD.
func MaskEmail(email string) string {
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" || domain == "" {
		return "[invalid-email]"
	}

	if len(local) > 1 {
		local = local[:1] + strings.Repeat("*", len(local)-1)
	}

	if dot := strings.LastIndex(domain, "."); dot > 0 {
		domain = strings.Repeat("*", dot) + domain[dot:]
	}

	return local + "@" + domain
}

// Redacted returns "[REDACTED]" in production and the value elsewhere.
func Redacted(key, value, env string) slog.Attr {
	if env == "production" {
		return slog.String(key, "[REDACTED]")
	}
	return slog.String(key, value)
}

// SafeQuery returns rawQuery with the values of sensitive parameters replaced.
// Unparseable queries are dropped entirely.
func SafeQuery(rawQuery string) string {
	if rawQuery == "" {
		return ""
	}

	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return "[REDACTED]"
	}

	for key := range values {
		lower := strings.ToLower(key)
		for _, s := range sensitiveParams {
			if strings.Contains(lower, s) {
				values[key] = []string{"[REDACTED]"}
				break
			}
		}
	}

	return values.Encode()
}
