// Package redact masks secret values before they are shown in reports.
package redact

import (
	"fmt"
	"regexp"
)

const placeholder = "[REDACTED]"

type pattern struct {
	re   *regexp.Regexp
	repl string
}

var patterns []pattern

func init() {
	raw := []struct{ expr, repl string }{
		// Private key blocks
		{`-----BEGIN [A-Z ]+PRIVATE KEY-----[\s\S]*?-----END [A-Z ]+PRIVATE KEY-----`, placeholder},
		// JWTs (three base64url segments, header starting with {")
		{`eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`, placeholder},
		// Bearer tokens
		{`Bearer\s+[A-Za-z0-9\-._~+/]+=*`, "Bearer " + placeholder},
		// Passwords embedded in URLs; user and host are kept
		{`(://[^/\s:@]+:)[^/\s@]+(@)`, "${1}" + placeholder + "${2}"},
	}
	for _, r := range raw {
		patterns = append(patterns, pattern{re: regexp.MustCompile(r.expr), repl: r.repl})
	}
}

// Value hides a secret value entirely, keeping only its length.
func Value(v string) string {
	if v == "" {
		return ""
	}
	return fmt.Sprintf("[REDACTED:%d]", len(v))
}

// Redact replaces secret-shaped substrings in free text with [REDACTED],
// leaving the surrounding text readable.
func Redact(text string) string {
	for _, p := range patterns {
		text = p.re.ReplaceAllString(text, p.repl)
	}
	return text
}

// Contains reports whether text has any secret-shaped substring.
func Contains(text string) bool {
	for _, p := range patterns {
		if p.re.MatchString(text) {
			return true
		}
	}
	return false
}
