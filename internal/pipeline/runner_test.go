package pipeline

import (
	"errors"
	"strings"
	"testing"

	"sheet-verify/internal/check"
	"sheet-verify/internal/model"
	"sheet-verify/internal/normalize"
	"sheet-verify/internal/reference"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func screeningSheet() *model.Table {
	t := model.NewTable(DefaultDataSheet, []string{"ID", ColumnTopLevel, ColumnChild, ColumnServicePoint})
	t.Append("1", "Shan (South)", "Taunggyi", "SP001")
	t.Append("2", "Shan (South) ", "Hopong", "sp002")
	t.Append("3", "Bago", "East", "SP003")
	t.Append("4", "Yangon", "Insein", "SP001")
	return t
}

func genericBundle() *model.Bundle {
	ref := model.NewTable(DefaultReferenceSheet, []string{"Variable", "Value", reference.DefaultCodeColumn})
	ref.Append("state_region", "Shan (South)", "SP001")
	ref.Append("state_region", "Yangon", "SP002")
	ref.Append("Shan (South)", "Taunggyi")
	ref.Append("Shan (South)", "Hopong")
	ref.Append("Yangon", "Kamayut")
	return model.NewBundle(screeningSheet(), ref)
}

func TestRunGeneric(t *testing.T) {
	result, err := NewRunner(DefaultPlan(reference.StrategyGeneric)).Run(genericBundle())
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 4, result.TotalRows)
	require.Len(t, result.Checks, 3)

	top, ok := result.Get("Invalid State_Region")
	require.True(t, ok)
	assert.Equal(t, []int{2}, top.Invalid.Indices())

	child, _ := result.Get("Invalid Township")
	assert.Equal(t, []int{2, 3}, child.Invalid.Indices(), "unknown parent and wrong child both fail")

	codes, _ := result.Get("Invalid Service_delivery_point")
	assert.Equal(t, []int{2}, codes.Invalid.Indices(), "code check uses display policy on both sides")

	assert.False(t, result.Passed())
	assert.Equal(t, 4, result.InvalidTotal())
	assert.Len(t, result.Map(), 3)
	assert.Equal(t, 2, result.Stats.InvalidCounts["Invalid Township"])
}

func TestRunPositional(t *testing.T) {
	ref := model.NewTable(DefaultReferenceSheet, []string{ColumnTopLevel, ColumnChild, reference.DefaultCodeColumn})
	ref.Append("shan (south)", "taunggyi", "SP001")
	ref.Append("Shan (South)", "Hopong", "SP002")
	ref.Append("", "Orphan", "SP003")
	ref.Append("Yangon", "Insein")

	data := model.NewTable(DefaultDataSheet, []string{ColumnTopLevel, ColumnChild, ColumnServicePoint})
	data.Append("SHAN (SOUTH)", "TAUNGGYI", "sp001")
	data.Append("yangon", "insein", "SP003")
	data.Append("Bago", "Orphan", "SP002")

	result, err := NewRunner(DefaultPlan(reference.StrategyPositional)).Run(model.NewBundle(data, ref))
	require.NoError(t, err)

	top, _ := result.Get("Invalid State_Region")
	assert.Equal(t, []int{2}, top.Invalid.Indices())
	child, _ := result.Get("Invalid Township")
	assert.Equal(t, []int{2}, child.Invalid.Indices())
	codes, _ := result.Get("Invalid Service_delivery_point")
	assert.Empty(t, codes.Invalid.Indices())
	assert.True(t, codes.Passed())
}

func TestRunAllPass(t *testing.T) {
	data := model.NewTable(DefaultDataSheet, []string{ColumnTopLevel, ColumnChild, ColumnServicePoint})
	data.Append("Yangon", "Kamayut", "SP002")
	bundle := genericBundle()
	bundle.Add(data)

	result, err := NewRunner(DefaultPlan(reference.StrategyGeneric)).Run(bundle)
	require.NoError(t, err)
	assert.True(t, result.Passed())

	for _, line := range result.Diagnostics() {
		if strings.HasPrefix(line, "Rows with invalid") {
			assert.Contains(t, line, "[PASS]")
		}
	}
}

func TestRunPreconditions(t *testing.T) {
	tests := []struct {
		name   string
		bundle func() *model.Bundle
		sheet  string
		column string
	}{
		{
			name: "missing data sheet",
			bundle: func() *model.Bundle {
				b := genericBundle()
				return model.NewBundle(mustSheet(b, DefaultReferenceSheet))
			},
			sheet: DefaultDataSheet,
		},
		{
			name:   "missing reference sheet",
			bundle: func() *model.Bundle { return model.NewBundle(screeningSheet()) },
			sheet:  DefaultReferenceSheet,
		},
		{
			name: "missing data column",
			bundle: func() *model.Bundle {
				b := genericBundle()
				data := model.NewTable(DefaultDataSheet, []string{ColumnTopLevel, ColumnChild})
				data.Append("Yangon", "Kamayut")
				b.Add(data)
				return b
			},
			column: ColumnServicePoint,
		},
		{
			name: "missing reference column",
			bundle: func() *model.Bundle {
				ref := model.NewTable(DefaultReferenceSheet, []string{"Variable", "Val"})
				return model.NewBundle(screeningSheet(), ref)
			},
			column: "Value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NewRunner(DefaultPlan(reference.StrategyGeneric)).Run(tt.bundle())
			require.Error(t, err)
			assert.Nil(t, result, "no partial result on precondition failure")
			assert.True(t, model.IsPrecondition(err))

			if tt.sheet != "" {
				var sheetErr *model.MissingSheetError
				require.True(t, errors.As(err, &sheetErr))
				assert.Equal(t, tt.sheet, sheetErr.Sheet)
			}
			if tt.column != "" {
				var colErr *model.MissingColumnError
				require.True(t, errors.As(err, &colErr))
				assert.Equal(t, tt.column, colErr.Column)
			}
		})
	}
}

func TestRunSkipsUnneededReferences(t *testing.T) {
	plan := DefaultPlan(reference.StrategyGeneric)
	plan.Checks = plan.Checks[:2]

	ref := model.NewTable(DefaultReferenceSheet, []string{"Variable", "Value"})
	ref.Append("state_region", "Yangon")

	result, err := NewRunner(plan).Run(model.NewBundle(screeningSheet(), ref))
	require.NoError(t, err, "code column is only required by the flat-code check")
	assert.Len(t, result.Checks, 2)
}

func TestRunSeparateServicePointSheet(t *testing.T) {
	plan := DefaultPlan(reference.StrategyGeneric)
	plan.ServicePointSheet = "Codes"

	codes := model.NewTable("Codes", []string{reference.DefaultCodeColumn})
	codes.Append("sp001")
	codes.Append("SP002")
	codes.Append("SP003")

	bundle := genericBundle()
	bundle.Add(codes)

	result, err := NewRunner(plan).Run(bundle)
	require.NoError(t, err)
	res, _ := result.Get("Invalid Service_delivery_point")
	assert.True(t, res.Passed())
	assert.Equal(t, 3, result.Stats.CodeCount)
}

func TestRunPolicyOverride(t *testing.T) {
	plan := DefaultPlan(reference.StrategyGeneric)
	plan.HierarchyPolicy = normalize.PolicyDisplay

	ref := model.NewTable(DefaultReferenceSheet, []string{"Variable", "Value", reference.DefaultCodeColumn})
	ref.Append("state_region", "yangon", "SP001")
	ref.Append("yangon", "kamayut")

	data := model.NewTable(DefaultDataSheet, []string{ColumnTopLevel, ColumnChild, ColumnServicePoint})
	data.Append("YANGON", "Kamayut", "SP001")

	result, err := NewRunner(plan).Run(model.NewBundle(data, ref))
	require.NoError(t, err)
	assert.True(t, result.Passed(), "one policy drives both sides of the comparison")
}

func TestRunOnCheck(t *testing.T) {
	runner := NewRunner(DefaultPlan(reference.StrategyGeneric))
	seen := map[string]int{}
	runner.OnCheck = func(name string, invalid int) { seen[name] = invalid }

	_, err := runner.Run(genericBundle())
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		"Invalid State_Region":           1,
		"Invalid Township":               2,
		"Invalid Service_delivery_point": 1,
	}, seen)
}

func TestRunUnknownKind(t *testing.T) {
	plan := DefaultPlan(reference.StrategyGeneric)
	plan.Checks = append(plan.Checks, check.Check{Name: "Custom", Kind: "script"})

	_, err := NewRunner(plan).Run(genericBundle())
	require.Error(t, err)
	assert.False(t, model.IsPrecondition(err))
}

func TestDiagnostics(t *testing.T) {
	result, err := NewRunner(DefaultPlan(reference.StrategyGeneric)).Run(genericBundle())
	require.NoError(t, err)

	lines := strings.Join(result.Diagnostics(), "\n")
	assert.Contains(t, lines, "Valid State_Region (2): [Shan (South) Yangon]")
	assert.Contains(t, lines, "Sample Township for 'Shan (South)': [Hopong Taunggyi]")
	assert.Contains(t, lines, "Sample uploaded State_Region: [Shan (South) Shan (South)  Bago Yangon]")
	assert.Contains(t, lines, "Rows with invalid Township: 2 [FAIL]")
	assert.Contains(t, lines, "Rows with invalid Service_delivery_point: 1 [FAIL]")
}

func mustSheet(b *model.Bundle, name string) *model.Table {
	t, err := b.Sheet(name)
	if err != nil {
		panic(err)
	}
	return t
}
