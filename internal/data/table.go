// Package data turns external tabular sources into the in-memory Table the
// validation engine consumes. Two formats are understood: a CSV export of the
// worksheet values, and a JSON object of named columns. A second CSV carrying
// the raw cell text (formulas) can be attached for classification.
//
// The core never sees a file handle; everything downstream of this package is
// plain in-memory sequences.
package data

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"cashflow-validator/internal/model"
)

// ReadCSV parses a worksheet CSV: first row is the header, every following
// row is one period. Duplicate headers get a ".1", ".2", ... suffix, matching
// how dataframe tooling disambiguates them (the source workbooks rely on
// this for the second "Discount rate" column). Empty or non-numeric cells
// become NaN so row alignment survives.
func ReadCSV(r io.Reader) (*model.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv has no header row")
	}

	names := dedupeHeaders(records[0])
	cols := make(map[string][]float64, len(names))
	for _, name := range names {
		cols[name] = make([]float64, 0, len(records)-1)
	}

	for _, rec := range records[1:] {
		for i, name := range names {
			v := math.NaN()
			if i < len(rec) {
				if parsed, err := strconv.ParseFloat(strings.TrimSpace(rec[i]), 64); err == nil {
					v = parsed
				}
			}
			cols[name] = append(cols[name], v)
		}
	}

	return model.NewTable(names, cols), nil
}

// LoadCSV reads a worksheet CSV from disk.
func LoadCSV(path string) (*model.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadFormulaGrid parses a CSV of raw cell text: same header row as the
// value CSV, each data cell holding the cell's formula ("=B3*C3") or literal
// text. Cells are kept verbatim apart from surrounding whitespace.
func ReadFormulaGrid(r io.Reader) (map[string][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read formula csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("formula csv has no header row")
	}

	names := dedupeHeaders(records[0])
	grid := make(map[string][]string, len(names))
	for _, name := range names {
		grid[name] = make([]string, 0, len(records)-1)
	}
	for _, rec := range records[1:] {
		for i, name := range names {
			cell := ""
			if i < len(rec) {
				cell = strings.TrimSpace(rec[i])
			}
			grid[name] = append(grid[name], cell)
		}
	}
	return grid, nil
}

// LoadFormulaGrid reads a formula CSV from disk.
func LoadFormulaGrid(path string) (map[string][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadFormulaGrid(f)
}

// tableJSON is the JSON file shape: named columns plus optional raw cells.
type tableJSON struct {
	Columns map[string][]float64 `json:"columns"`
	Raw     map[string][]string  `json:"raw_cells,omitempty"`

	// Order fixes the column order; columns absent from it are appended
	// alphabetically by FromColumns.
	Order []string `json:"order,omitempty"`
}

// LoadJSON reads a table from a JSON file of named columns.
func LoadJSON(path string) (*model.Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var tj tableJSON
	if err := json.Unmarshal(raw, &tj); err != nil {
		return nil, fmt.Errorf("parse table json: %w", err)
	}
	t := FromColumns(tj.Order, tj.Columns)
	t.Raw = tj.Raw
	return t, nil
}

// FromColumns builds a table from a name-keyed column map. Names listed in
// order come first; any remaining columns follow in sorted order so the
// result is deterministic.
func FromColumns(order []string, cols map[string][]float64) *model.Table {
	names := make([]string, 0, len(cols))
	seen := make(map[string]bool, len(cols))
	for _, n := range order {
		if _, ok := cols[n]; ok && !seen[n] {
			names = append(names, n)
			seen[n] = true
		}
	}
	rest := make([]string, 0, len(cols))
	for n := range cols {
		if !seen[n] {
			rest = append(rest, n)
		}
	}
	sort.Strings(rest)
	names = append(names, rest...)

	return model.NewTable(names, cols)
}

// dedupeHeaders suffixes repeated header names with ".1", ".2", ...
func dedupeHeaders(header []string) []string {
	counts := make(map[string]int, len(header))
	names := make([]string, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if n := counts[name]; n > 0 {
			names[i] = fmt.Sprintf("%s.%d", name, n)
		} else {
			names[i] = name
		}
		counts[name]++
	}
	return names
}
