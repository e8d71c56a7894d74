// Package redact strips sensitive material from strings before they are
// logged or returned in error responses. Provider errors in particular can
// echo back request headers, signed URLs, or connection strings, none of
// which belong in a client-facing message or a log line.
package redact

import "regexp"

// Redaction placeholders.
const (
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedPathPlaceholder       = "[REDACTED_PATH]"
)

// Precompiled patterns, ordered so the specific provider key formats win
// before the generic assignment pattern rewrites the surrounding text.
var (
	// Connection strings with inline credentials (postgres, redis).
	dsnRegex = regexp.MustCompile(`(?i)(postgres|postgresql|redis|rediss)://[^@\s]+@`)

	// Google API keys as issued for Gemini.
	geminiKeyRegex = regexp.MustCompile(`AIza[0-9A-Za-z_\-]{30,}`)

	// OpenRouter API keys.
	openrouterKeyRegex = regexp.MustCompile(`sk-or-[A-Za-z0-9\-]{8,}`)

	// Bearer tokens echoed from request headers.
	bearerRegex = regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9_\-.~+/]{8,}`)

	// Generic credential assignments (api_key=..., token: ..., secret=...).
	assignmentRegex = regexp.MustCompile(
		`(?i)(api[_-]?key|token|secret|password|passwd|auth)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`,
	)

	// Signed URL query parameters on generated image URLs.
	signedURLRegex = regexp.MustCompile(`(?i)([?&](signature|sig|x-goog-signature|token)=)[^&\s]+`)

	// Absolute file paths from wrapped I/O errors.
	unixPathRegex = regexp.MustCompile(`(/[\w.-]+){2,}`)
)

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

var rules = []rule{
	{dsnRegex, RedactedCredentialPlaceholder},
	{geminiKeyRegex, RedactedKeyPlaceholder},
	{openrouterKeyRegex, RedactedKeyPlaceholder},
	{bearerRegex, "Bearer " + RedactedKeyPlaceholder},
	{assignmentRegex, RedactedCredentialPlaceholder},
	{signedURLRegex, "${1}" + RedactedKeyPlaceholder},
	{unixPathRegex, RedactedPathPlaceholder},
}

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.replacement)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
