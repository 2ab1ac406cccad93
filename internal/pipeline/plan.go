// Package pipeline wires reference loading and row checks into one run.
package pipeline

import (
	"sheet-verify/internal/check"
	"sheet-verify/internal/normalize"
	"sheet-verify/internal/reference"
)

// Column names of the standard screening layout
const (
	ColumnTopLevel     = "State_Region"
	ColumnChild        = "Township"
	ColumnServicePoint = "Service_delivery_point"
)

// Default sheet names
const (
	DefaultDataSheet      = "Screening"
	DefaultReferenceSheet = "Dropdown"
	DefaultSampleSize     = 5
	DefaultSampleParent   = "Shan (South)"
)

// Plan describes one validation run. HierarchyPolicy applies to both the
// reference lookup and the top-level/child checks; CodePolicy applies to
// both the code set and the flat-code check.
type Plan struct {
	DataSheet string
	Strategy  reference.Strategy

	ReferenceSheet string
	PositionalRows int
	Sentinel       string
	VariableColumn string
	ValueColumn    string

	ServicePointSheet      string // Empty means ReferenceSheet
	ServicePointCodeColumn string

	HierarchyPolicy normalize.Policy
	CodePolicy      normalize.Policy

	Checks []check.Check

	SampleSize   int
	SampleParent string
}

// DefaultPlan returns the standard three checks for a strategy
func DefaultPlan(strategy reference.Strategy) Plan {
	return Plan{
		DataSheet:              DefaultDataSheet,
		Strategy:               strategy,
		ReferenceSheet:         DefaultReferenceSheet,
		PositionalRows:         reference.DefaultPositionalRows,
		Sentinel:               reference.DefaultSentinel,
		VariableColumn:         reference.DefaultVariableColumn,
		ValueColumn:            reference.DefaultValueColumn,
		ServicePointCodeColumn: reference.DefaultCodeColumn,
		HierarchyPolicy:        strategy.DefaultHierarchyPolicy(),
		CodePolicy:             normalize.PolicyDisplay,
		Checks: []check.Check{
			{Name: "Invalid " + ColumnTopLevel, Kind: check.KindTopLevel, Column: ColumnTopLevel},
			{Name: "Invalid " + ColumnChild, Kind: check.KindChild, Column: ColumnChild, ParentColumn: ColumnTopLevel},
			{Name: "Invalid " + ColumnServicePoint, Kind: check.KindFlatCode, Column: ColumnServicePoint},
		},
		SampleSize:   DefaultSampleSize,
		SampleParent: DefaultSampleParent,
	}
}

func (p Plan) servicePointSheet() string {
	if p.ServicePointSheet == "" {
		return p.ReferenceSheet
	}
	return p.ServicePointSheet
}

func (p Plan) needs(kinds ...check.Kind) bool {
	for _, c := range p.Checks {
		for _, k := range kinds {
			if c.Kind == k {
				return true
			}
		}
	}
	return false
}

// policyFor returns the family policy a check kind must use
func (p Plan) policyFor(k check.Kind) normalize.Policy {
	if k == check.KindFlatCode {
		return p.CodePolicy
	}
	return p.HierarchyPolicy
}

func (p Plan) sampleSize() int {
	if p.SampleSize <= 0 {
		return DefaultSampleSize
	}
	return p.SampleSize
}
