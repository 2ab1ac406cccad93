package pipeline

import (
	"fmt"

	"sheet-verify/internal/check"
	"sheet-verify/internal/model"
	"sheet-verify/internal/reference"
)

// CheckResult is the invalid subset produced by one check
type CheckResult struct {
	Name    string
	Kind    check.Kind
	Column  string
	Invalid *model.Table
}

// Passed reports whether the check found no invalid rows
func (c CheckResult) Passed() bool {
	return c.Invalid.Len() == 0
}

// Status returns "PASS" or "FAIL"
func (c CheckResult) Status() string {
	if c.Passed() {
		return "PASS"
	}
	return "FAIL"
}

// Result is the labeled outcome of one run
type Result struct {
	RunID     string
	Strategy  reference.Strategy
	DataSheet string
	TotalRows int
	Checks    []CheckResult
	Stats     Stats
}

// Passed reports whether every check passed
func (r *Result) Passed() bool {
	for _, c := range r.Checks {
		if !c.Passed() {
			return false
		}
	}
	return true
}

// Get returns the result of the named check
func (r *Result) Get(name string) (CheckResult, bool) {
	for _, c := range r.Checks {
		if c.Name == name {
			return c, true
		}
	}
	return CheckResult{}, false
}

// Map returns check name -> invalid subset
func (r *Result) Map() map[string]*model.Table {
	m := make(map[string]*model.Table, len(r.Checks))
	for _, c := range r.Checks {
		m[c.Name] = c.Invalid
	}
	return m
}

// InvalidTotal returns the sum of invalid rows over all checks.
// A row failing two checks counts twice.
func (r *Result) InvalidTotal() int {
	total := 0
	for _, c := range r.Checks {
		total += c.Invalid.Len()
	}
	return total
}

// Diagnostics renders the run statistics as plain-text lines
func (r *Result) Diagnostics() []string {
	s := r.Stats
	lines := make([]string, 0, 8+len(r.Checks))

	if s.TopLevelColumn != "" {
		lines = append(lines, fmt.Sprintf("Valid %s (%d): %v", s.TopLevelColumn, s.ReferenceTopLevel, s.ReferenceKeys))
	}
	if s.ChildColumn != "" && s.SampleParent != "" {
		lines = append(lines, fmt.Sprintf("Sample %s for '%s': %v", s.ChildColumn, s.SampleParent, s.SampleChildren))
	}
	if s.CodeCount > 0 {
		lines = append(lines, fmt.Sprintf("Valid service point codes: %d", s.CodeCount))
	}
	if s.TopLevelColumn != "" {
		lines = append(lines, fmt.Sprintf("Sample uploaded %s: %v", s.TopLevelColumn, s.ObservedTopLevel))
	}
	if s.ChildColumn != "" {
		lines = append(lines, fmt.Sprintf("Sample uploaded %s: %v", s.ChildColumn, s.ObservedChild))
	}

	for _, c := range r.Checks {
		lines = append(lines, fmt.Sprintf("Rows with invalid %s: %d [%s]", c.Column, c.Invalid.Len(), c.Status()))
	}
	return lines
}
