package model

import "errors"

// Fatal validation-run errors. Callers wrap these with the offending column
// or lengths via fmt.Errorf("...: %w", ...) so errors.Is keeps working.
var (
	// ErrMissingColumn means a required input column is absent from the table.
	ErrMissingColumn = errors.New("missing required column")

	// ErrMisalignedLength means the input columns do not all share one length.
	ErrMisalignedLength = errors.New("input columns have mismatched lengths")

	// ErrNumericDomain means an input value makes the recurrence undefined
	// (a discount rate of exactly -1).
	ErrNumericDomain = errors.New("input value outside numeric domain")
)
