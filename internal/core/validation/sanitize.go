package validation

import (
	"html"
	"regexp"
	"strings"
)

var (
	scriptPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?is)<script.*?>.*?</script>`),
		regexp.MustCompile(`(?i)javascript:`),
		regexp.MustCompile(`(?i)on\w+\s*=`),
	}
	sqlPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(SELECT|INSERT|UPDATE|DELETE|DROP|UNION|EXEC|ALTER|CREATE|TRUNCATE)\b`),
		regexp.MustCompile(`--|#|/\*`),
		regexp.MustCompile(`(?i)\b(OR|AND)\b\s+\d+\s*=\s*\d+`),
	}
)

// secretKeys are left untouched by SanitizePayload; they are checked for
// strength, never stored or rendered.
var secretKeys = map[string]bool{"password": true}

// Sanitize strips script and SQL injection patterns from strings, HTML-escapes
// what remains and trims it. Maps and slices are sanitized recursively with
// keys and order preserved; any other value is returned unchanged. It is
// lossy and best-effort.
//
// Patterns are stripped from the raw text; escaping runs last.
func Sanitize(value any) any {
	switch t := value.(type) {
	case string:
		return sanitizeString(t)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, v := range t {
			out[k] = Sanitize(v)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, v := range t {
			out[i] = Sanitize(v)
		}
		return out
	case []string:
		out := make([]string, len(t))
		for i, v := range t {
			out[i] = sanitizeString(v)
		}
		return out
	default:
		return value
	}
}

// SanitizePayload sanitizes every top-level value of an entity payload except
// secrets.
func SanitizePayload(raw map[string]any) map[string]any {
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		if secretKeys[k] {
			out[k] = v
			continue
		}
		out[k] = Sanitize(v)
	}
	return out
}

func sanitizeString(s string) string {
	for _, re := range scriptPatterns {
		s = re.ReplaceAllString(s, "")
	}
	for _, re := range sqlPatterns {
		s = re.ReplaceAllString(s, "")
	}
	return strings.TrimSpace(html.EscapeString(s))
}
