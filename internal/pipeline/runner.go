package pipeline

import (
	"fmt"

	"sheet-verify/internal/check"
	"sheet-verify/internal/model"
	"sheet-verify/internal/reference"

	"github.com/google/uuid"
)

// Runner executes a Plan against sheet bundles. A Runner holds no state
// between runs and may be shared by concurrent callers.
type Runner struct {
	Plan Plan

	// OnCheck, if set, is called after each check completes
	OnCheck func(name string, invalid int)
}

// NewRunner creates a runner for the plan
func NewRunner(plan Plan) *Runner {
	return &Runner{Plan: plan}
}

// Run loads the reference sheets, runs every check and returns the
// labeled invalid subsets. Any precondition failure aborts the whole run.
func (r *Runner) Run(bundle *model.Bundle) (*Result, error) {
	plan := r.Plan

	data, err := bundle.Sheet(plan.DataSheet)
	if err != nil {
		return nil, fmt.Errorf("data sheet: %w", err)
	}

	var lookup *reference.Lookup
	if plan.needs(check.KindTopLevel, check.KindChild) {
		lookup, err = r.loadLookup(bundle)
		if err != nil {
			return nil, err
		}
	}

	var codes reference.Set
	if plan.needs(check.KindFlatCode) {
		codes, err = r.loadCodes(bundle)
		if err != nil {
			return nil, err
		}
	}

	result := &Result{
		RunID:     uuid.NewString(),
		Strategy:  plan.Strategy,
		DataSheet: data.Name,
		TotalRows: data.Len(),
		Checks:    make([]CheckResult, 0, len(plan.Checks)),
	}

	for _, c := range plan.Checks {
		c.Policy = plan.policyFor(c.Kind)
		invalid, err := c.Run(data, lookup, codes)
		if err != nil {
			return nil, fmt.Errorf("check %q: %w", c.Name, err)
		}
		result.Checks = append(result.Checks, CheckResult{
			Name:    c.Name,
			Kind:    c.Kind,
			Column:  c.Column,
			Invalid: invalid,
		})
		if r.OnCheck != nil {
			r.OnCheck(c.Name, invalid.Len())
		}
	}

	result.Stats = collectStats(plan, data, lookup, codes, result)
	return result, nil
}

func (r *Runner) loadLookup(bundle *model.Bundle) (*reference.Lookup, error) {
	plan := r.Plan

	sheet, err := bundle.Sheet(plan.ReferenceSheet)
	if err != nil {
		return nil, fmt.Errorf("reference sheet: %w", err)
	}

	var lookup *reference.Lookup
	switch plan.Strategy {
	case reference.StrategyPositional:
		lookup, err = reference.LoadPositional(sheet, reference.PositionalOptions{
			Rows:   plan.PositionalRows,
			Policy: plan.HierarchyPolicy,
		})
	case reference.StrategyGeneric:
		lookup, err = reference.LoadGeneric(sheet, reference.GenericOptions{
			VariableColumn: plan.VariableColumn,
			ValueColumn:    plan.ValueColumn,
			Sentinel:       plan.Sentinel,
			Policy:         plan.HierarchyPolicy,
		})
	default:
		return nil, fmt.Errorf("unknown reference strategy %q", plan.Strategy)
	}
	if err != nil {
		return nil, fmt.Errorf("reference sheet: %w", err)
	}
	return lookup, nil
}

func (r *Runner) loadCodes(bundle *model.Bundle) (reference.Set, error) {
	plan := r.Plan

	sheet, err := bundle.Sheet(plan.servicePointSheet())
	if err != nil {
		return nil, fmt.Errorf("service point sheet: %w", err)
	}
	codes, err := reference.LoadServicePoints(sheet, plan.ServicePointCodeColumn, plan.CodePolicy)
	if err != nil {
		return nil, fmt.Errorf("service point sheet: %w", err)
	}
	return codes, nil
}
