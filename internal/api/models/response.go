package models

// ValidationResponse is the full outcome of one validation run.
type ValidationResponse struct {
	Status    string  `json:"status"` // "passed" or "mismatched"
	Periods   int     `json:"periods"`
	Passed    bool    `json:"passed"`
	Tolerance float64 `json:"tolerance"`

	Metrics      []MetricResult     `json:"metrics"`
	PresentValue PresentValueResult `json:"present_value"`

	Classifications []ColumnClassification `json:"classifications,omitempty"`
	Anomalies       []AnomalyFlag          `json:"anomalies,omitempty"`
}

// MetricResult is the comparison outcome for one recomputed sequence.
// Checked=false means the reported column was absent and nothing was
// compared — distinct from checked-and-passed.
type MetricResult struct {
	Metric         string    `json:"metric"`
	Checked        bool      `json:"checked"`
	ReportedColumn string    `json:"reported_column,omitempty"`
	Mismatched     bool      `json:"mismatched"`
	MismatchedRows []int     `json:"mismatched_rows,omitempty"`
	EmptyRows      []int     `json:"empty_rows,omitempty"`
	Diffs          []float64 `json:"diffs,omitempty"`
}

// PresentValueResult carries both scalars for human-readable reporting.
type PresentValueResult struct {
	Checked    bool    `json:"checked"`
	Mismatched bool    `json:"mismatched"`
	Computed   float64 `json:"computed"`
	Reported   float64 `json:"reported,omitempty"`
	Diff       float64 `json:"diff,omitempty"`
}

// ColumnClassification is the formula classification of one column.
type ColumnClassification struct {
	Column         string   `json:"column"`
	Kind           string   `json:"kind"`
	Representative string   `json:"representative,omitempty"`
	Distinct       []string `json:"distinct,omitempty"`
}

// AnomalyFlag is one data-quality warning on an assumption column.
type AnomalyFlag struct {
	Column string  `json:"column"`
	Row    int     `json:"row"`
	Kind   string  `json:"kind"`
	Value  float64 `json:"value"`
	Prev   float64 `json:"prev,omitempty"`
	Delta  float64 `json:"delta,omitempty"`
}

// CompareResponse is the outcome of a two-version comparison.
type CompareResponse struct {
	Identical      bool           `json:"identical"`
	Tolerance      float64        `json:"tolerance"`
	AddedColumns   []string       `json:"added_columns,omitempty"`
	RemovedColumns []string       `json:"removed_columns,omitempty"`
	Changed        []ColumnChange `json:"changed,omitempty"`
}

// ColumnChange lists a shared column's changed cells.
type ColumnChange struct {
	Column  string       `json:"column"`
	OldRows int          `json:"old_rows"`
	NewRows int          `json:"new_rows"`
	Cells   []CellChange `json:"cells,omitempty"`
}

// CellChange is one changed cell.
type CellChange struct {
	Row      int     `json:"row"`
	Old      float64 `json:"old"`
	New      float64 `json:"new"`
	Delta    float64 `json:"delta"`
	OldEmpty bool    `json:"old_empty,omitempty"`
	NewEmpty bool    `json:"new_empty,omitempty"`
}

// ColumnsResponse describes the expected workbook layout.
type ColumnsResponse struct {
	Required []string            `json:"required"`
	Reported map[string][]string `json:"reported"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
