// Package labels cleans externally supplied label strings before they are
// placed into an external tool's argument vector.
package labels

import (
	"regexp"
	"strings"
)

// MaxLength is the longest label the issue tracker accepts
const MaxLength = 50

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9\-_ .]`)

// Sanitize keeps alphanumerics, hyphen, underscore, space and period
func Sanitize(raw string) string {
	clean := unsafeChars.ReplaceAllString(strings.TrimSpace(raw), "")
	if len(clean) > MaxLength {
		clean = clean[:MaxLength]
	}
	return clean
}

// SanitizeAll sanitizes every label and drops the ones left empty
func SanitizeAll(raw []string) []string {
	var result []string
	for _, l := range raw {
		if clean := Sanitize(l); clean != "" {
			result = append(result, clean)
		}
	}
	return result
}
