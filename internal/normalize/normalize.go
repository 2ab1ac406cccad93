// Package normalize turns raw cell values into comparable strings.
//
// Both sides of every comparison (reference sheet and data sheet) must be
// normalized with the same Policy. Mixing policies makes valid rows fail.
package normalize

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Policy selects how case is treated after cleaning
type Policy int

const (
	// PolicyStrict keeps the original case
	PolicyStrict Policy = iota
	// PolicyDisplay title-cases every word ("shan (south)" -> "Shan (South)")
	PolicyDisplay
)

// String returns the configuration name of the policy
func (p Policy) String() string {
	switch p {
	case PolicyStrict:
		return "strict"
	case PolicyDisplay:
		return "display"
	default:
		return "unknown"
	}
}

// ParsePolicy converts a configuration value into a Policy
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strict":
		return PolicyStrict, nil
	case "display":
		return PolicyDisplay, nil
	default:
		return PolicyStrict, fmt.Errorf("unknown normalization policy %q (want strict or display)", s)
	}
}

// hidden lists characters removed anywhere in a value, not just at the ends
var hidden = strings.NewReplacer(
	"\u200b", "",
	"\t", "",
	"\n", "",
)

// Normalize cleans a raw cell value. A null cell (empty string) yields "".
// Hidden characters are removed before trimming so the result is stable
// under repeated application.
func Normalize(raw string, p Policy) string {
	if raw == "" {
		return ""
	}

	s := strings.TrimSpace(hidden.Replace(raw))
	if p == PolicyDisplay && s != "" {
		// Caser keeps state between calls; never share one across goroutines
		s = cases.Title(language.Und).String(s)
	}
	return s
}

// Strict normalizes without touching case
func Strict(raw string) string {
	return Normalize(raw, PolicyStrict)
}

// Display normalizes and title-cases
func Display(raw string) string {
	return Normalize(raw, PolicyDisplay)
}
