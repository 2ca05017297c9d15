// Package message holds the outreach template collection and the renderer
// that fills templates with per-target context.
package message

import (
	"regexp"
	"sort"
	"strings"
)

var placeholderRegex = regexp.MustCompile(`\{([a-zA-Z0-9_]+)\}`)

// Rendered is the result of filling a template.
type Rendered struct {
	Subject string
	Body    string
	// MissingFields lists placeholders that had no value in the context,
	// sorted and de-duplicated. They render as empty strings; the caller
	// decides whether that deserves a warning.
	MissingFields []string
}

// Render substitutes {field}-style placeholders from ctx. Unknown fields
// render as the empty string; substitution never fails on a missing key.
// If the first line of the rendered text is "Subject: ..." (any case), it
// becomes the subject and is stripped from the body. Trailing whitespace on
// the body is trimmed.
func Render(raw string, ctx map[string]string) Rendered {
	missing := map[string]bool{}
	out := placeholderRegex.ReplaceAllStringFunc(raw, func(m string) string {
		field := m[1 : len(m)-1]
		val, ok := ctx[field]
		if !ok || val == "" {
			missing[field] = true
			return ""
		}
		return val
	})

	var r Rendered
	r.Subject, r.Body = splitSubject(out)
	r.Body = strings.TrimRight(r.Body, " \t\r\n")

	for f := range missing {
		r.MissingFields = append(r.MissingFields, f)
	}
	sort.Strings(r.MissingFields)
	return r
}

// splitSubject extracts a leading "Subject: <text>" line, case-insensitively.
func splitSubject(text string) (subject, body string) {
	line, rest, found := strings.Cut(text, "\n")
	const prefix = "subject:"
	if strings.HasPrefix(strings.ToLower(line), prefix) {
		subject = strings.TrimSpace(line[len(prefix):])
		if !found {
			return subject, ""
		}
		return subject, strings.TrimLeft(rest, "\r\n")
	}
	return "", text
}
