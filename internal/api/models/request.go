package models

// TableBody is a table supplied inline as JSON: named numeric columns plus
// optional raw cell text for formula classification.
type TableBody struct {
	Columns  map[string][]float64 `json:"columns" binding:"required"`
	RawCells map[string][]string  `json:"raw_cells,omitempty"`
	Order    []string             `json:"order,omitempty"` // column display order
}

// ValidateRequest is the JSON body for POST /api/v1/validate.
// The same endpoint also accepts a multipart upload (file + optional
// formulas CSV) with the options as form fields.
type ValidateRequest struct {
	Table   TableBody       `json:"table" binding:"required"`
	Options ValidateOptions `json:"options,omitempty"`
}

// ValidateOptions tune one run. Zero values fall back to server config.
type ValidateOptions struct {
	Tolerance     float64 `json:"tolerance,omitempty"`
	JumpThreshold float64 `json:"jump_threshold,omitempty"`

	// IncludeDiffs adds the full per-row difference sequences to the
	// response; default is just the mismatched row indexes.
	IncludeDiffs bool `json:"include_diffs,omitempty"`

	// Aliases overrides the metric -> reported column binding per run.
	Aliases map[string][]string `json:"aliases,omitempty"`
}

// CompareRequest is the JSON body for POST /api/v1/compare: two versions of
// the same workbook table.
type CompareRequest struct {
	Old       TableBody `json:"old" binding:"required"`
	New       TableBody `json:"new" binding:"required"`
	Tolerance float64   `json:"tolerance,omitempty"`
}
