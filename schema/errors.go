package schema

import "errors"

// Error kinds shared by config parsing and the reporting engine. Callers match them with errors.Is.
var (
	// ErrInvalidRange is returned for an explicit range with start after end or an unknown preset.
	ErrInvalidRange = errors.New("invalid range")

	// ErrMetricNotFound is returned when a requested metric is absent from the current aggregation.
	ErrMetricNotFound = errors.New("metric not found")

	// ErrFetchFailed is returned when the record fetch collaborator fails for either period.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrCancelled is returned when the caller cancels the report while it is being built.
	ErrCancelled = errors.New("report cancelled")
)
