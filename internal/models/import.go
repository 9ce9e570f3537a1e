package models

import (
	"time"
)

// ValidationError describes a value that was coerced to a default during
// normalization. Rows are never rejected; these are informational.
type ValidationError struct {
	Line    int         `json:"line"`
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// ImportReport is the outcome of a full roster replacement. UnmappedRows
// counts skipped rows whose only data sat in unrecognized columns.
type ImportReport struct {
	BatchID      string            `json:"batch_id"`
	Source       string            `json:"source"`
	TotalRows    int               `json:"total_rows"`
	Imported     int               `json:"imported"`
	SkippedRows  int               `json:"skipped_rows"`
	UnmappedRows int               `json:"unmapped_rows"`
	Columns      []string          `json:"columns"`
	Notes        []ValidationError `json:"notes,omitempty"`
	DurationMs   int64             `json:"duration_ms"`
	CompletedAt  time.Time         `json:"completed_at"`
}
