package core

import "github.com/huangsam/farmstat/schema"

// Error kinds surfaced by the reporting engine. They alias the schema errors so config
// parsing and the engine report the same values.
var (
	ErrInvalidRange   = schema.ErrInvalidRange
	ErrMetricNotFound = schema.ErrMetricNotFound
	ErrFetchFailed    = schema.ErrFetchFailed
	ErrCancelled      = schema.ErrCancelled
)
