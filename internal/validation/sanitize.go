package validation

import "strings"

// knownEntities are the escape sequences SanitizeText itself produces.
// An ampersand starting one of these is left alone, which keeps the
// function idempotent: sanitizing already-sanitized text is a no-op.
var knownEntities = []string{"amp;", "lt;", "gt;", "quot;", "#39;"}

func startsEntity(s string) bool {
	for _, e := range knownEntities {
		if strings.HasPrefix(s, e) {
			return true
		}
	}
	return false
}

// SanitizeText HTML-escapes free-form profile text for safe rendering.
// Unlike html.EscapeString it does not double-escape entities it has
// already produced.
func SanitizeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '&':
			if startsEntity(s[i+1:]) {
				b.WriteByte(c)
			} else {
				b.WriteString("&amp;")
			}
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		case '\'':
			b.WriteString("&#39;")
		default:
			b.WriteByte(c)
		}
	}

	return b.String()
}
