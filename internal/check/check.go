// Package check runs per-row membership and hierarchy checks.
//
// Every check returns the failing rows themselves (original identity and
// cell values), not a flag column, so callers can render or export them.
// The checks are independent: a row with an unknown parent fails both
// TopLevel and ChildOfParent.
package check

import (
	"fmt"

	"sheet-verify/internal/model"
	"sheet-verify/internal/normalize"
	"sheet-verify/internal/reference"
)

// Kind names one of the fixed check variants
type Kind string

const (
	KindTopLevel Kind = "top_level"
	KindChild    Kind = "child"
	KindFlatCode Kind = "flat_code"
)

// TopLevel returns rows whose normalized column value is not in valid
func TopLevel(data *model.Table, column string, valid reference.Set, p normalize.Policy) (*model.Table, error) {
	if err := data.Require(column); err != nil {
		return nil, err
	}
	return data.Filter(func(r model.Row) bool {
		return !valid.Has(normalize.Normalize(r.Value(column), p))
	}), nil
}

// ChildOfParent returns rows whose parent has no child entry, or whose
// child is not among that parent's children
func ChildOfParent(data *model.Table, parentCol, childCol string, lookup *reference.Lookup, p normalize.Policy) (*model.Table, error) {
	if err := data.Require(parentCol, childCol); err != nil {
		return nil, err
	}
	return data.Filter(func(r model.Row) bool {
		children, ok := lookup.ChildrenOf(normalize.Normalize(r.Value(parentCol), p))
		if !ok {
			return true
		}
		return !children.Has(normalize.Normalize(r.Value(childCol), p))
	}), nil
}

// FlatCode returns rows whose normalized column value is not in codes
func FlatCode(data *model.Table, column string, codes reference.Set, p normalize.Policy) (*model.Table, error) {
	if err := data.Require(column); err != nil {
		return nil, err
	}
	return data.Filter(func(r model.Row) bool {
		return !codes.Has(normalize.Normalize(r.Value(column), p))
	}), nil
}

// Check is one configured check
type Check struct {
	Name         string // Report label, e.g. "Invalid Township"
	Kind         Kind
	Column       string // Column under test (child column for KindChild)
	ParentColumn string // Only used by KindChild
	Policy       normalize.Policy
}

// Run dispatches to the check function for c.Kind
func (c Check) Run(data *model.Table, lookup *reference.Lookup, codes reference.Set) (*model.Table, error) {
	switch c.Kind {
	case KindTopLevel:
		if lookup == nil {
			return nil, fmt.Errorf("check %q: no reference lookup loaded", c.Name)
		}
		return TopLevel(data, c.Column, lookup.TopLevel, c.Policy)
	case KindChild:
		if lookup == nil {
			return nil, fmt.Errorf("check %q: no reference lookup loaded", c.Name)
		}
		return ChildOfParent(data, c.ParentColumn, c.Column, lookup, c.Policy)
	case KindFlatCode:
		if codes == nil {
			return nil, fmt.Errorf("check %q: no code set loaded", c.Name)
		}
		return FlatCode(data, c.Column, codes, c.Policy)
	default:
		return nil, fmt.Errorf("check %q: unknown kind %q", c.Name, c.Kind)
	}
}
