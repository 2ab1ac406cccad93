package check

import (
	"errors"
	"testing"

	"sheet-verify/internal/model"
	"sheet-verify/internal/normalize"
	"sheet-verify/internal/reference"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func screening(rows ...[3]string) *model.Table {
	t := model.NewTable("Screening", []string{"State_Region", "Township", "Service_delivery_point"})
	for _, r := range rows {
		t.Append(r[0], r[1], r[2])
	}
	return t
}

func yangonLookup() *reference.Lookup {
	l := reference.NewLookup()
	l.TopLevel = reference.NewSet("Yangon", "Mandalay")
	l.AddChild("Yangon", "North")
	l.AddChild("Yangon", "South")
	return l
}

func TestScenarioNormalizedRowPasses(t *testing.T) {
	data := screening([3]string{"yangon ", "North", ""})
	lookup := yangonLookup()

	invalid, err := TopLevel(data, "State_Region", lookup.TopLevel, normalize.PolicyDisplay)
	require.NoError(t, err)
	assert.Zero(t, invalid.Len())

	invalid, err = ChildOfParent(data, "State_Region", "Township", lookup, normalize.PolicyDisplay)
	require.NoError(t, err)
	assert.Zero(t, invalid.Len())
}

func TestScenarioUnknownParentFailsBoth(t *testing.T) {
	data := screening(
		[3]string{"Yangon", "North", ""},
		[3]string{"Bago", "East", ""},
	)
	lookup := yangonLookup()

	top, err := TopLevel(data, "State_Region", lookup.TopLevel, normalize.PolicyStrict)
	require.NoError(t, err)
	child, err := ChildOfParent(data, "State_Region", "Township", lookup, normalize.PolicyStrict)
	require.NoError(t, err)

	assert.Equal(t, []int{1}, top.Indices())
	assert.Equal(t, []int{1}, child.Indices())
}

func TestChildOfParentDeclaredWithoutChildren(t *testing.T) {
	// Mandalay is top-level but has no child entry
	data := screening([3]string{"Mandalay", "Chanmyathazi", ""})
	lookup := yangonLookup()

	top, err := TopLevel(data, "State_Region", lookup.TopLevel, normalize.PolicyStrict)
	require.NoError(t, err)
	child, err := ChildOfParent(data, "State_Region", "Township", lookup, normalize.PolicyStrict)
	require.NoError(t, err)

	assert.Zero(t, top.Len())
	assert.Equal(t, 1, child.Len())
}

func TestChildOfParentWrongChild(t *testing.T) {
	data := screening(
		[3]string{"Yangon", "South", ""},
		[3]string{"Yangon", "West", ""},
		[3]string{"Yangon", "", ""},
	)

	child, err := ChildOfParent(data, "State_Region", "Township", yangonLookup(), normalize.PolicyStrict)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, child.Indices())
}

func TestScenarioFlatCodePolicyConsistency(t *testing.T) {
	data := screening([3]string{"Yangon", "North", " sp001"})

	ref := model.NewTable("Dropdown", []string{"Service_delivery_point_code"})
	ref.Append("SP001")
	ref.Append("SP002")

	codes, err := reference.LoadServicePoints(ref, "Service_delivery_point_code", normalize.PolicyDisplay)
	require.NoError(t, err)
	require.True(t, codes.Has("Sp001"))

	invalid, err := FlatCode(data, "Service_delivery_point", codes, normalize.PolicyDisplay)
	require.NoError(t, err)
	assert.Zero(t, invalid.Len(), "same policy on both sides must match")

	// Mixing policies breaks the match
	invalid, err = FlatCode(data, "Service_delivery_point", codes, normalize.PolicyStrict)
	require.NoError(t, err)
	assert.Equal(t, 1, invalid.Len())
}

func TestMembershipProperties(t *testing.T) {
	data := screening(
		[3]string{"Yangon", "North", "SP001"},
		[3]string{"yangon", "north", "SP009"},
		[3]string{"Bago", "East", ""},
		[3]string{"", "", ""},
		[3]string{"Mandalay\u200b", "South", "sp002"},
		[3]string{"Yangon\t", "South\n", "SP002"},
	)
	lookup := yangonLookup()
	codes := reference.NewSet("SP001", "SP002")
	p := normalize.PolicyStrict

	top, err := TopLevel(data, "State_Region", lookup.TopLevel, p)
	require.NoError(t, err)
	child, err := ChildOfParent(data, "State_Region", "Township", lookup, p)
	require.NoError(t, err)
	flat, err := FlatCode(data, "Service_delivery_point", codes, p)
	require.NoError(t, err)

	inTop := toSet(top.Indices())
	inChild := toSet(child.Indices())
	inFlat := toSet(flat.Indices())

	for _, r := range data.Rows {
		parent := normalize.Normalize(r.Value("State_Region"), p)
		kid := normalize.Normalize(r.Value("Township"), p)
		code := normalize.Normalize(r.Value("Service_delivery_point"), p)

		assert.Equal(t, !lookup.TopLevel.Has(parent), inTop[r.Index], "top-level membership for row %d", r.Index)

		children, ok := lookup.ChildrenOf(parent)
		expectChild := !ok || !children.Has(kid)
		assert.Equal(t, expectChild, inChild[r.Index], "child membership for row %d", r.Index)

		assert.Equal(t, !codes.Has(code), inFlat[r.Index], "code membership for row %d", r.Index)
	}

	// Failing rows are the original rows, untouched
	for _, sub := range []*model.Table{top, child, flat} {
		assert.Equal(t, data.Columns, sub.Columns)
		for _, r := range sub.Rows {
			assert.Equal(t, data.Rows[r.Index].Cells, r.Cells)
		}
	}
}

func TestMissingColumnIsReported(t *testing.T) {
	data := model.NewTable("Screening", []string{"State_Region"})
	data.Append("Yangon")
	lookup := yangonLookup()

	tests := []struct {
		name   string
		run    func() (*model.Table, error)
		column string
	}{
		{"top level", func() (*model.Table, error) {
			return TopLevel(data, "Region", lookup.TopLevel, normalize.PolicyStrict)
		}, "Region"},
		{"child", func() (*model.Table, error) {
			return ChildOfParent(data, "State_Region", "Township", lookup, normalize.PolicyStrict)
		}, "Township"},
		{"flat code", func() (*model.Table, error) {
			return FlatCode(data, "Service_delivery_point", reference.NewSet(), normalize.PolicyStrict)
		}, "Service_delivery_point"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			invalid, err := tt.run()
			assert.Nil(t, invalid)

			var colErr *model.MissingColumnError
			require.True(t, errors.As(err, &colErr), "expected missing column error, got %v", err)
			assert.Equal(t, tt.column, colErr.Column)
			assert.Equal(t, "Screening", colErr.Table)
		})
	}
}

func TestCheckRun(t *testing.T) {
	data := screening([3]string{"Bago", "East", "SP001"})
	lookup := yangonLookup()
	codes := reference.NewSet("SP001")

	checks := []struct {
		check    Check
		expected int
	}{
		{Check{Name: "top", Kind: KindTopLevel, Column: "State_Region"}, 1},
		{Check{Name: "child", Kind: KindChild, Column: "Township", ParentColumn: "State_Region"}, 1},
		{Check{Name: "code", Kind: KindFlatCode, Column: "Service_delivery_point"}, 0},
	}

	for _, tt := range checks {
		invalid, err := tt.check.Run(data, lookup, codes)
		require.NoError(t, err, tt.check.Name)
		assert.Equal(t, tt.expected, invalid.Len(), tt.check.Name)
	}

	_, err := Check{Name: "odd", Kind: "regex"}.Run(data, lookup, codes)
	assert.Error(t, err)

	_, err = Check{Name: "code", Kind: KindFlatCode, Column: "Service_delivery_point"}.Run(data, lookup, nil)
	assert.Error(t, err)
}

func toSet(idx []int) map[int]bool {
	m := make(map[int]bool, len(idx))
	for _, i := range idx {
		m[i] = true
	}
	return m
}
