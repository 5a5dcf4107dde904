// Package tablediff compares two versions of the same workbook table:
// which columns appeared or disappeared, and which cells moved beyond a
// tolerance. It is purely numeric and structural; summarizing the result in
// prose is someone else's job.
package tablediff

import (
	"math"
	"sort"

	"cashflow-validator/internal/model"
)

// CellDiff is one cell whose value changed between versions.
// An empty (unparsable or blank) cell is represented by the Empty flag with a
// zero value, keeping the struct safe to JSON-encode.
type CellDiff struct {
	Row      int     `json:"row"`
	Old      float64 `json:"old"`
	New      float64 `json:"new"`
	Delta    float64 `json:"delta"`
	OldEmpty bool    `json:"old_empty,omitempty"`
	NewEmpty bool    `json:"new_empty,omitempty"`
}

// ColumnDiff lists the changed cells of one shared column.
type ColumnDiff struct {
	Column  string     `json:"column"`
	Changed []CellDiff `json:"changed"`

	// OldRows/NewRows differ when the column grew or shrank; rows beyond the
	// shared length are not listed cell-by-cell.
	OldRows int `json:"old_rows"`
	NewRows int `json:"new_rows"`
}

// Report is the structural and numeric delta between two table versions.
type Report struct {
	Tolerance      float64      `json:"tolerance"`
	AddedColumns   []string     `json:"added_columns,omitempty"`
	RemovedColumns []string     `json:"removed_columns,omitempty"`
	Changed        []ColumnDiff `json:"changed,omitempty"`
}

// Identical reports whether the two versions agreed everywhere.
func (r *Report) Identical() bool {
	return len(r.AddedColumns) == 0 && len(r.RemovedColumns) == 0 && len(r.Changed) == 0
}

// Compare diffs newT against oldT. Shared columns are compared cell-wise over
// the shared row prefix; a cell counts as changed when the absolute difference
// strictly exceeds the tolerance, or when exactly one side is empty (NaN).
// Column lists are sorted for deterministic output.
func Compare(oldT, newT *model.Table, tolerance float64) *Report {
	if tolerance <= 0 {
		tolerance = 1e-6
	}
	rep := &Report{Tolerance: tolerance}

	oldCols := make(map[string]bool, len(oldT.Names))
	for _, n := range oldT.Names {
		oldCols[n] = true
	}
	for _, n := range newT.Names {
		if !oldCols[n] {
			rep.AddedColumns = append(rep.AddedColumns, n)
		}
	}
	newCols := make(map[string]bool, len(newT.Names))
	for _, n := range newT.Names {
		newCols[n] = true
	}
	for _, n := range oldT.Names {
		if !newCols[n] {
			rep.RemovedColumns = append(rep.RemovedColumns, n)
		}
	}
	sort.Strings(rep.AddedColumns)
	sort.Strings(rep.RemovedColumns)

	for _, name := range oldT.Names {
		if !newCols[name] {
			continue
		}
		oldVals, _ := oldT.Column(name)
		newVals, _ := newT.Column(name)
		cd := compareColumn(name, oldVals, newVals, tolerance)
		if len(cd.Changed) > 0 || cd.OldRows != cd.NewRows {
			rep.Changed = append(rep.Changed, cd)
		}
	}
	sort.Slice(rep.Changed, func(i, j int) bool {
		return rep.Changed[i].Column < rep.Changed[j].Column
	})

	return rep
}

func compareColumn(name string, oldVals, newVals []float64, tolerance float64) ColumnDiff {
	cd := ColumnDiff{
		Column:  name,
		OldRows: len(oldVals),
		NewRows: len(newVals),
	}

	n := len(oldVals)
	if len(newVals) < n {
		n = len(newVals)
	}
	for i := 0; i < n; i++ {
		o, nv := oldVals[i], newVals[i]
		oNaN, nNaN := math.IsNaN(o), math.IsNaN(nv)
		if oNaN && nNaN {
			continue
		}
		if oNaN != nNaN {
			diff := CellDiff{Row: i, OldEmpty: oNaN, NewEmpty: nNaN}
			if !oNaN {
				diff.Old = o
			}
			if !nNaN {
				diff.New = nv
			}
			cd.Changed = append(cd.Changed, diff)
			continue
		}
		if math.Abs(o-nv) > tolerance {
			cd.Changed = append(cd.Changed, CellDiff{
				Row:   i,
				Old:   o,
				New:   nv,
				Delta: nv - o,
			})
		}
	}
	return cd
}
