package logging

import (
	"regexp"
	"strings"
)

const (
	// RedactedText is the replacement text for sensitive data
	RedactedText = "[REDACTED]"
	// maskKeepRunes is how many leading runes of a sample value survive masking
	maskKeepRunes = 2
)

var (
	// Pattern to match potential API keys in error messages and URLs
	apiKeyPattern = regexp.MustCompile(`(?i)(api[_-]?key|apikey|key|token)=[A-Za-z0-9-_]{8,}`)

	// Pattern to match bearer tokens
	bearerPattern = regexp.MustCompile(`Bearer\s+[A-Za-z0-9-_.]+`)

	// Pattern to match sk-... style secret keys
	secretKeyPattern = regexp.MustCompile(`sk-[A-Za-z0-9-_]{8,}`)
)

// SanitizeError sanitizes provider error messages that might contain API
// keys or tokens. Use this before logging any error from an LLM call.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	sanitized := apiKeyPattern.ReplaceAllString(err.Error(), "${1}="+RedactedText)
	sanitized = bearerPattern.ReplaceAllString(sanitized, "Bearer "+RedactedText)
	sanitized = secretKeyPattern.ReplaceAllString(sanitized, RedactedText)

	return sanitized
}

// MaskValue masks a column sample value for logging, keeping only a short
// prefix. Sample values routinely contain customer PII and must never land
// in logs verbatim.
func MaskValue(value string) string {
	runes := []rune(value)
	if len(runes) <= maskKeepRunes {
		return strings.Repeat("*", len(runes))
	}
	return string(runes[:maskKeepRunes]) + strings.Repeat("*", len(runes)-maskKeepRunes)
}

// MaskValues masks a slice of sample values for logging.
func MaskValues(values []string) []string {
	masked := make([]string, len(values))
	for i, v := range values {
		masked[i] = MaskValue(v)
	}
	return masked
}
