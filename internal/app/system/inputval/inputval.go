// internal/app/system/inputval/inputval.go
//
// Package inputval validates user-supplied form and JSON input before
// any database write is attempted. Validation failures are reported as
// field-level messages and never reach the store layer.
package inputval

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Result collects validation failures in the order they were found.
type Result struct {
	errs []string
}

// HasErrors reports whether any check failed.
func (r *Result) HasErrors() bool { return len(r.errs) > 0 }

// First returns the first failure message, or "" when all checks passed.
func (r *Result) First() string {
	if len(r.errs) == 0 {
		return ""
	}
	return r.errs[0]
}

// All returns every failure message.
func (r *Result) All() []string { return r.errs }

func (r *Result) add(msg string) { r.errs = append(r.errs, msg) }

// Required fails when value is empty after trimming.
func (r *Result) Required(label, value string) {
	if strings.TrimSpace(value) == "" {
		r.add(label + " is required.")
	}
}

// MaxLen fails when value exceeds max runes.
func (r *Result) MaxLen(label, value string, max int) {
	if utf8.RuneCountInString(value) > max {
		r.add(fmt.Sprintf("%s must be at most %d characters.", label, max))
	}
}

// MinLen fails when value is shorter than min runes.
func (r *Result) MinLen(label, value string, min int) {
	if utf8.RuneCountInString(value) < min {
		r.add(fmt.Sprintf("%s must be at least %d characters.", label, min))
	}
}

// Email fails when value is not a plausible email address.
func (r *Result) Email(label, value string) {
	if !IsValidEmail(value) {
		r.add(label + " must be a valid email address.")
	}
}

// IsValidEmail reports whether s looks like a deliverable address.
// Display-name forms ("User <user@host>"), whitespace, and dotted-edge
// local parts are rejected; single-label domains are accepted so dev
// and test environments (user@localhost) keep working.
func IsValidEmail(s string) bool {
	if s == "" || strings.ContainsAny(s, " \t<>") {
		return false
	}
	if strings.Count(s, "@") != 1 {
		return false
	}
	at := strings.IndexByte(s, '@')
	local, domain := s[:at], s[at+1:]
	if !validDotAtom(local) || !validDotAtom(domain) {
		return false
	}
	return true
}

// validDotAtom rejects empty strings, leading/trailing dots, and
// consecutive dots.
func validDotAtom(s string) bool {
	if s == "" {
		return false
	}
	if strings.HasPrefix(s, ".") || strings.HasSuffix(s, ".") {
		return false
	}
	return !strings.Contains(s, "..")
}
