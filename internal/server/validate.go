package server

import (
	"fmt"
	"regexp"
	"strings"
)

// Input size limits enforced at the API boundary. The store only checks
// non-emptiness; length policy lives here.
const (
	maxContentChars  = 100_000
	maxArtifactChars = 1_000_000
	maxQueryChars    = 1_000
	maxNameChars     = 255
)

// sensitivePatterns flag content that looks like credentials. A match
// never blocks the write — it warns the caller and logs.
var sensitivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(password|passwd|pwd)\s*[:=]\s*['"]?[\w@#$%^&*()_+=\-\[\]{};:,.<>?/]+`),
	regexp.MustCompile(`(?i)(api[_-]?key|apikey)\s*[:=]\s*['"]?[\w\-]+`),
	regexp.MustCompile(`(?i)(secret|token|bearer)\s*[:=]\s*['"]?[\w\-]+`),
	regexp.MustCompile(`(?i)(credentials?|auth)\s*[:=]\s*['"]?[\w@#$%^&*()_+=\-\[\]{};:,.<>?/]+`),
}

// validateText checks a caller-supplied field for emptiness and length.
func validateText(field, value string, maxChars int) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s cannot be empty", field)
	}
	if len(value) > maxChars {
		return fmt.Errorf("%s exceeds maximum length of %d characters", field, maxChars)
	}
	return nil
}

// looksSensitive reports whether content matches a credential pattern.
func looksSensitive(content string) bool {
	for _, p := range sensitivePatterns {
		if p.MatchString(content) {
			return true
		}
	}
	return false
}
