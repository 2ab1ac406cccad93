package model

// Row is one record of a sheet.
// An absent key or an empty string is a null cell.
type Row struct {
	Index int               // Zero-based position in the source table (row identity)
	Cells map[string]string // Column name -> raw cell value
}

// Value returns the raw cell value; null cells yield ""
func (r Row) Value(column string) string {
	return r.Cells[column]
}

// IsNull reports whether a cell is empty or absent
func (r Row) IsNull(column string) bool {
	return r.Cells[column] == ""
}

// Line returns the 1-based spreadsheet line (header is line 1)
func (r Row) Line() int {
	return r.Index + 2
}

// Table is one named sheet: ordered columns plus rows
type Table struct {
	Name    string
	Columns []string
	Rows    []Row
}

// NewTable creates an empty table with the given columns
func NewTable(name string, columns []string) *Table {
	return &Table{
		Name:    name,
		Columns: columns,
		Rows:    make([]Row, 0),
	}
}

// Append adds a row built from positional values and returns it.
// The row index is its position in the table.
func (t *Table) Append(values ...string) Row {
	cells := make(map[string]string, len(values))
	for i, v := range values {
		if i >= len(t.Columns) {
			break
		}
		if v != "" {
			cells[t.Columns[i]] = v
		}
	}
	row := Row{Index: len(t.Rows), Cells: cells}
	t.Rows = append(t.Rows, row)
	return row
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.Rows)
}

// HasColumn checks for an exact, case-sensitive column name
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Require returns a *MissingColumnError for the first absent column
func (t *Table) Require(columns ...string) error {
	for _, c := range columns {
		if !t.HasColumn(c) {
			return &MissingColumnError{Table: t.Name, Column: c}
		}
	}
	return nil
}

// Filter returns a table with the same shape holding only the kept rows.
// Kept rows retain their original Index and cell values.
func (t *Table) Filter(keep func(Row) bool) *Table {
	out := NewTable(t.Name, t.Columns)
	for _, r := range t.Rows {
		if keep(r) {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}

// Head returns a table restricted to the first n rows
func (t *Table) Head(n int) *Table {
	if n < 0 {
		n = 0
	}
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	return &Table{
		Name:    t.Name,
		Columns: t.Columns,
		Rows:    t.Rows[:n],
	}
}

// Distinct returns up to n distinct raw values of a column in row order.
// Null cells are skipped.
func (t *Table) Distinct(column string, n int) []string {
	seen := make(map[string]bool)
	values := make([]string, 0, n)
	for _, r := range t.Rows {
		if len(values) >= n {
			break
		}
		v := r.Value(column)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	return values
}

// Indices returns the identities of all rows
func (t *Table) Indices() []int {
	idx := make([]int, len(t.Rows))
	for i, r := range t.Rows {
		idx[i] = r.Index
	}
	return idx
}
