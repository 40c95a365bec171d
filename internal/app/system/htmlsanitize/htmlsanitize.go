// internal/app/system/htmlsanitize/htmlsanitize.go
//
// Package htmlsanitize strips dangerous markup from user-supplied
// content before it is stored. Chat messages and descriptions are
// echoed back to every group member's browser, so sanitizing happens
// once, server-side, at write time.
package htmlsanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// ugc allows the formatting a user would legitimately paste
	// (emphasis, lists, links, tables); scripts and event handlers
	// are removed.
	ugc = bluemonday.UGCPolicy()

	// strict strips all markup, leaving text only.
	strict = bluemonday.StrictPolicy()
)

// Sanitize removes unsafe HTML while keeping user-generated formatting.
func Sanitize(s string) string {
	return ugc.Sanitize(s)
}

// Text strips all markup, returning plain text. Used for chat message
// content, where markup has no meaning.
func Text(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}
