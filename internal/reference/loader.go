package reference

import (
	"fmt"
	"strings"

	"sheet-verify/internal/model"
	"sheet-verify/internal/normalize"
)

// Strategy names the shape of the reference sheet
type Strategy string

const (
	// StrategyPositional reads (parent, child) pairs from a fixed leading block
	StrategyPositional Strategy = "positional"
	// StrategyGeneric reads a Variable/Value table with a top-level sentinel
	StrategyGeneric Strategy = "generic"
)

// Defaults matching the known reference-sheet layouts
const (
	DefaultPositionalRows = 359
	DefaultSentinel       = "state_region"
	DefaultVariableColumn = "Variable"
	DefaultValueColumn    = "Value"
	DefaultCodeColumn     = "Service_delivery_point_code"
)

// ParseStrategy converts a configuration value into a Strategy
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case StrategyPositional:
		return StrategyPositional, nil
	case StrategyGeneric:
		return StrategyGeneric, nil
	default:
		return "", fmt.Errorf("unknown reference strategy %q (want positional or generic)", s)
	}
}

// DefaultHierarchyPolicy returns the policy the strategy's sheets are written for
func (s Strategy) DefaultHierarchyPolicy() normalize.Policy {
	if s == StrategyPositional {
		return normalize.PolicyDisplay
	}
	return normalize.PolicyStrict
}

// PositionalOptions configures LoadPositional
type PositionalOptions struct {
	Rows   int // Leading rows to read; <= 0 means DefaultPositionalRows
	Policy normalize.Policy
}

// LoadPositional builds a lookup from the first two columns of the leading
// block of rows. Rows with a null parent or child are skipped. TopLevel is
// exactly the set of parents seen.
func LoadPositional(table *model.Table, opts PositionalOptions) (*Lookup, error) {
	if len(table.Columns) < 2 {
		return nil, &model.MissingColumnError{
			Table:  table.Name,
			Column: fmt.Sprintf("column %d", len(table.Columns)+1),
		}
	}

	rows := opts.Rows
	if rows <= 0 {
		rows = DefaultPositionalRows
	}

	parentCol, childCol := table.Columns[0], table.Columns[1]
	lookup := NewLookup()

	for _, r := range table.Head(rows).Rows {
		if r.IsNull(parentCol) || r.IsNull(childCol) {
			continue
		}
		lookup.AddChild(
			normalize.Normalize(r.Value(parentCol), opts.Policy),
			normalize.Normalize(r.Value(childCol), opts.Policy),
		)
	}

	for parent := range lookup.Children {
		lookup.TopLevel.Add(parent)
	}
	return lookup, nil
}

// GenericOptions configures LoadGeneric
type GenericOptions struct {
	VariableColumn string
	ValueColumn    string
	Sentinel       string
	Policy         normalize.Policy
}

func (o GenericOptions) withDefaults() GenericOptions {
	if o.VariableColumn == "" {
		o.VariableColumn = DefaultVariableColumn
	}
	if o.ValueColumn == "" {
		o.ValueColumn = DefaultValueColumn
	}
	if o.Sentinel == "" {
		o.Sentinel = DefaultSentinel
	}
	return o
}

// LoadGeneric builds a lookup from a Variable/Value table. Rows whose
// Variable equals the sentinel (case-insensitive) declare top-level values;
// every other row declares Value as a child of Variable.
func LoadGeneric(table *model.Table, opts GenericOptions) (*Lookup, error) {
	opts = opts.withDefaults()
	if err := table.Require(opts.VariableColumn, opts.ValueColumn); err != nil {
		return nil, err
	}

	lookup := NewLookup()
	for _, r := range table.Rows {
		if r.IsNull(opts.VariableColumn) || r.IsNull(opts.ValueColumn) {
			continue
		}
		// A non-null cell that normalizes to "" is still a declaration
		variable := normalize.Normalize(r.Value(opts.VariableColumn), opts.Policy)
		value := normalize.Normalize(r.Value(opts.ValueColumn), opts.Policy)

		if strings.EqualFold(variable, opts.Sentinel) {
			lookup.TopLevel.Add(value)
			continue
		}
		lookup.AddChild(variable, value)
	}
	return lookup, nil
}

// LoadServicePoints normalizes every value of column into a flat code set
func LoadServicePoints(table *model.Table, column string, policy normalize.Policy) (Set, error) {
	if column == "" {
		column = DefaultCodeColumn
	}
	if err := table.Require(column); err != nil {
		return nil, err
	}

	codes := make(Set)
	for _, r := range table.Rows {
		if !r.IsNull(column) {
			codes.Add(normalize.Normalize(r.Value(column), policy))
		}
	}
	return codes, nil
}
