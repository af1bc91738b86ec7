// Package security provides input hygiene and outbound request guards.
package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer strips markup from user-submitted text so only plain text is stored.
// It is safe for concurrent use.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer creates a Sanitizer backed by bluemonday's strict policy,
// which allows no elements at all.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

// maxStripPasses bounds how many layers of entity encoding are peeled.
const maxStripPasses = 4

// StripMarkup removes every HTML element from s and returns plain text.
// Entities are decoded before the policy runs, so "&lt;b&gt;" is treated as
// the tag it spells. Passes repeat until the text stops changing, which also
// catches markup hidden behind several layers of encoding.
func (s *Sanitizer) StripMarkup(input string) string {
	if input == "" {
		return ""
	}
	if !strings.ContainsAny(input, "<&") {
		return input
	}

	out := input
	for range maxStripPasses {
		next := html.UnescapeString(s.policy.Sanitize(html.UnescapeString(out)))
		if next == out {
			break
		}
		out = next
	}
	return out
}
