// Package sanitize strips a few dangerous fragments from free-text input.
//
// It is a defense-in-depth filter only. It is not an HTML sanitizer and must
// not be the only XSS protection: output still needs context-aware escaping.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	scriptTags   = strings.NewReplacer("<script", "", "</script", "")
	scriptScheme = regexp.MustCompile(`(?i)javascript:`)
)

// Clean trims text, removes the literal "<script" and "</script" fragments and
// any case-insensitive "javascript:" scheme prefix.
func Clean(text string) string {
	text = strings.TrimSpace(text)
	text = scriptTags.Replace(text)
	return scriptScheme.ReplaceAllString(text, "")
}
