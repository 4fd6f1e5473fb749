package agent

import "regexp"

// PII redaction patterns. Matching is textual: edge-case formats outside
// these patterns (e.g. formatted phone numbers, international SSNs) are not
// caught, and digit runs that merely look like phone numbers are.
var (
	emailPattern = regexp.MustCompile(`\b[\w.-]+@[\w.-]+\.[a-zA-Z]{2,6}\b`)
	ssnPattern   = regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)
	phonePattern = regexp.MustCompile(`\b\d{10}\b`)
)

const (
	redactedEmail = "[REDACTED_EMAIL]"
	redactedSSN   = "[REDACTED_SSN]"
	redactedPhone = "[REDACTED_PHONE]"
)

// RedactPII replaces email addresses, SSN-shaped digit groups and bare
// 10-digit sequences with fixed placeholders. The placeholders contain no
// redactable substrings, so the operation is idempotent.
func RedactPII(text string) string {
	text = emailPattern.ReplaceAllString(text, redactedEmail)
	text = ssnPattern.ReplaceAllString(text, redactedSSN)
	text = phonePattern.ReplaceAllString(text, redactedPhone)
	return text
}
