package pipeline

import (
	"sheet-verify/internal/check"
	"sheet-verify/internal/model"
	"sheet-verify/internal/reference"
)

// Stats is observability for the operator; nothing reads it for control flow
type Stats struct {
	InvalidCounts map[string]int

	TopLevelColumn    string
	ChildColumn       string
	ReferenceTopLevel int      // Size of the top-level set
	ReferenceKeys     []string // Sorted top-level values, capped
	SampleParent      string
	SampleChildren    []string
	CodeCount         int

	ObservedTopLevel []string // First distinct raw data values
	ObservedChild    []string
}

func collectStats(plan Plan, data *model.Table, lookup *reference.Lookup, codes reference.Set, result *Result) Stats {
	n := plan.sampleSize()
	s := Stats{
		InvalidCounts: make(map[string]int, len(result.Checks)),
		CodeCount:     codes.Len(),
	}

	for _, c := range result.Checks {
		s.InvalidCounts[c.Name] = c.Invalid.Len()
	}

	for _, c := range plan.Checks {
		switch c.Kind {
		case check.KindTopLevel:
			if s.TopLevelColumn == "" {
				s.TopLevelColumn = c.Column
			}
		case check.KindChild:
			if s.ChildColumn == "" {
				s.ChildColumn = c.Column
			}
			if s.TopLevelColumn == "" {
				s.TopLevelColumn = c.ParentColumn
			}
		}
	}

	if lookup != nil {
		keys := lookup.TopLevel.Sorted()
		s.ReferenceTopLevel = len(keys)
		if limit := n * 4; len(keys) > limit {
			keys = keys[:limit]
		}
		s.ReferenceKeys = keys

		if plan.SampleParent != "" {
			s.SampleParent = plan.SampleParent
			s.SampleChildren = []string{}
			if children, ok := lookup.ChildrenOf(plan.SampleParent); ok {
				s.SampleChildren = children.Sorted()
			}
		}
	}

	if s.TopLevelColumn != "" {
		s.ObservedTopLevel = data.Distinct(s.TopLevelColumn, n)
	}
	if s.ChildColumn != "" {
		s.ObservedChild = data.Distinct(s.ChildColumn, n)
	}
	return s
}
