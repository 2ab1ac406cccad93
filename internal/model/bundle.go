package model

// Bundle holds the sheets of one upload, keyed by exact sheet name
type Bundle struct {
	order  []string
	sheets map[string]*Table
}

// NewBundle creates a bundle from the given tables in order
func NewBundle(tables ...*Table) *Bundle {
	b := &Bundle{sheets: make(map[string]*Table)}
	for _, t := range tables {
		b.Add(t)
	}
	return b
}

// Add inserts a sheet, replacing any sheet with the same name
func (b *Bundle) Add(t *Table) {
	if _, exists := b.sheets[t.Name]; !exists {
		b.order = append(b.order, t.Name)
	}
	b.sheets[t.Name] = t
}

// Merge adds every sheet of other; its sheets win on name clashes
func (b *Bundle) Merge(other *Bundle) {
	if other == nil {
		return
	}
	for _, name := range other.order {
		b.Add(other.sheets[name])
	}
}

// Sheet returns the named sheet or a *MissingSheetError
func (b *Bundle) Sheet(name string) (*Table, error) {
	if t, ok := b.sheets[name]; ok {
		return t, nil
	}
	return nil, &MissingSheetError{Sheet: name, Available: b.Names()}
}

// Names returns sheet names in insertion order
func (b *Bundle) Names() []string {
	names := make([]string, len(b.order))
	copy(names, b.order)
	return names
}

// Len returns the number of sheets
func (b *Bundle) Len() int {
	return len(b.order)
}
