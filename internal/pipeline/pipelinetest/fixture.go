// Package pipelinetest provides a small screening workbook and its
// verification result for tests of the report and transport layers.
package pipelinetest

import (
	"sheet-verify/internal/model"
	"sheet-verify/internal/pipeline"
	"sheet-verify/internal/reference"
)

// Expected outcome of running the default generic plan over Bundle
const (
	TotalRows            = 4
	InvalidTopLevel      = 1
	InvalidChild         = 2
	InvalidServicePoints = 1
)

// DataRows are the rows of the Screening sheet
var DataRows = [][]string{
	{"1", "Shan (South)", "Taunggyi", "SP001"},
	{"2", "Shan (South) ", "Hopong", "sp002"},
	{"3", "Bago", "East", "SP003"},
	{"4", "Yangon", "Insein", "SP001"},
}

// DataColumns are the header cells of the Screening sheet
var DataColumns = []string{"ID", pipeline.ColumnTopLevel, pipeline.ColumnChild, pipeline.ColumnServicePoint}

// ReferenceColumns are the header cells of the Dropdown sheet
var ReferenceColumns = []string{"Variable", "Value", reference.DefaultCodeColumn}

// ReferenceRows are the rows of the Dropdown sheet
var ReferenceRows = [][]string{
	{"state_region", "Shan (South)", "SP001"},
	{"state_region", "Yangon", "SP002"},
	{"Shan (South)", "Taunggyi"},
	{"Shan (South)", "Hopong"},
	{"Yangon", "Kamayut"},
}

// Bundle returns a generic-layout workbook with one bad row per check
func Bundle() *model.Bundle {
	data := model.NewTable(pipeline.DefaultDataSheet, DataColumns)
	for _, r := range DataRows {
		data.Append(r...)
	}

	ref := model.NewTable(pipeline.DefaultReferenceSheet, ReferenceColumns)
	for _, r := range ReferenceRows {
		ref.Append(r...)
	}
	return model.NewBundle(data, ref)
}

// AllValidBundle returns the workbook with every failing row removed
func AllValidBundle() *model.Bundle {
	b := Bundle()
	data, _ := b.Sheet(pipeline.DefaultDataSheet)
	b.Add(data.Head(2))
	return b
}

// Result runs the default generic plan over Bundle
func Result() *pipeline.Result {
	return mustRun(Bundle())
}

// PassingResult runs the default generic plan over AllValidBundle
func PassingResult() *pipeline.Result {
	return mustRun(AllValidBundle())
}

func mustRun(b *model.Bundle) *pipeline.Result {
	result, err := pipeline.NewRunner(pipeline.DefaultPlan(reference.StrategyGeneric)).Run(b)
	if err != nil {
		panic(err)
	}
	return result
}
