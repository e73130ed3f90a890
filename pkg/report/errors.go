package report

import "errors"

var (
	// ErrInvalidScope marks a malformed query scope (e.g. date-from after
	// date-to). Rejected before any query executes.
	ErrInvalidScope = errors.New("invalid scope")

	// ErrUnknownProject marks a scope referencing a project id that does
	// not exist in the org mapping.
	ErrUnknownProject = errors.New("unknown project")
)
