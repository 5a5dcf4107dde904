package model

// Table is one parsed worksheet: named numeric columns aligned by row, plus
// (optionally) the raw per-cell text of the same columns for formula
// inspection. The numeric and raw views are independent; a plain CSV export
// carries no formulas and leaves Raw empty.
//
// A Table is immutable input owned by the caller. The validation engine never
// writes into it; every derived quantity lives in its own structure.
type Table struct {
	// Names preserves the source column order for deterministic output.
	Names []string

	// Columns maps column name to its values, one per row. Empty cells are
	// stored as NaN so row alignment is preserved.
	Columns map[string][]float64

	// Raw maps column name to the raw cell contents ("=B2*C2", "0.05", "").
	// Optional.
	Raw map[string][]string
}

// NewTable builds a table from name-keyed columns, keeping the given order.
// Names absent from cols are skipped; cols absent from names are dropped.
// Callers wanting every column listed should build the full name slice first
// (data.FromColumns does this).
func NewTable(names []string, cols map[string][]float64) *Table {
	t := &Table{
		Names:   make([]string, 0, len(names)),
		Columns: make(map[string][]float64, len(cols)),
	}
	for _, n := range names {
		if vals, ok := cols[n]; ok {
			t.Names = append(t.Names, n)
			t.Columns[n] = vals
		}
	}
	return t
}

// Rows returns the row count of the first column in source order.
// A table with no columns has zero rows.
func (t *Table) Rows() int {
	if t == nil || len(t.Names) == 0 {
		return 0
	}
	return len(t.Columns[t.Names[0]])
}

// Column returns the named column's values.
func (t *Table) Column(name string) ([]float64, bool) {
	if t == nil {
		return nil, false
	}
	vals, ok := t.Columns[name]
	return vals, ok
}

// Resolve returns the first of the candidate names present in the table,
// along with its values. Used to resolve reported-column aliases (e.g. the
// discount factor stored under a duplicate-header name like "Discount rate.1").
func (t *Table) Resolve(candidates []string) (string, []float64, bool) {
	for _, name := range candidates {
		if vals, ok := t.Column(name); ok {
			return name, vals, true
		}
	}
	return "", nil, false
}

// RawColumn returns the raw cell text for the named column, if captured.
func (t *Table) RawColumn(name string) ([]string, bool) {
	if t == nil || t.Raw == nil {
		return nil, false
	}
	cells, ok := t.Raw[name]
	return cells, ok
}
