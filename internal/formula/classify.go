// Package formula classifies each column's raw cell contents by how the
// column is computed: constant values, one formula applied uniformly, or a
// mix of formulas. The classification is purely string-level; it never
// evaluates a formula and never cross-checks it against the recomputation.
// Its purpose is to surface maintenance risk — a column that silently changes
// how it is computed row-to-row — independent of numeric correctness.
package formula

import "strings"

// Kind is the classification of one column.
type Kind string

const (
	// KindConstant: no row contains a formula. A zero-row column is
	// vacuously constant.
	KindConstant Kind = "constant"
	// KindConsistent: every formula row carries the same expression.
	KindConsistent Kind = "formula_consistent"
	// KindInconsistent: more than one distinct expression appears.
	KindInconsistent Kind = "formula_inconsistent"
)

// Classification is the result for one column.
type Classification struct {
	Column string `json:"column"`
	Kind   Kind   `json:"kind"`

	// Representative is the single expression, set when Kind is consistent.
	Representative string `json:"representative,omitempty"`

	// Distinct lists the distinct expressions in first-seen order, set when
	// Kind is inconsistent.
	Distinct []string `json:"distinct,omitempty"`
}

// IsFormula reports whether a raw cell holds a formula expression.
// Spreadsheet formulas are recognizable by the leading "=" marker.
func IsFormula(cell string) bool {
	return strings.HasPrefix(strings.TrimSpace(cell), "=")
}

// ClassifyColumn classifies one column from its ordered raw cells.
// It never fails.
func ClassifyColumn(name string, cells []string) Classification {
	c := Classification{Column: name, Kind: KindConstant}

	seen := make(map[string]struct{})
	var distinct []string
	for _, cell := range cells {
		expr := strings.TrimSpace(cell)
		if !IsFormula(expr) {
			continue
		}
		if _, ok := seen[expr]; !ok {
			seen[expr] = struct{}{}
			distinct = append(distinct, expr)
		}
	}

	switch len(distinct) {
	case 0:
		// constant
	case 1:
		c.Kind = KindConsistent
		c.Representative = distinct[0]
	default:
		c.Kind = KindInconsistent
		c.Distinct = distinct
	}
	return c
}

// ClassifyAll classifies every column in the raw grid, in the given column
// order. Columns without raw cells are skipped entirely rather than reported
// as constant: absence of formula data says nothing about the column.
func ClassifyAll(names []string, raw map[string][]string) []Classification {
	out := make([]Classification, 0, len(raw))
	for _, name := range names {
		cells, ok := raw[name]
		if !ok {
			continue
		}
		out = append(out, ClassifyColumn(name, cells))
	}
	return out
}
