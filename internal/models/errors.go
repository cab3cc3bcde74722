package models

import "errors"

// Sentinel errors for catalog operations
var (
	// ErrNotFound indicates the referenced id or MRL does not exist
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidArgument indicates a malformed request: unknown query kind,
	// unsupported parent combination, or an inconsistent type/subtype pair
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDanglingReference indicates a write that would point at a
	// non-existent album, artist, genre or show
	ErrDanglingReference = errors.New("dangling reference")

	// ErrStorage indicates an underlying persistence failure; it is always
	// surfaced, never silently swallowed
	ErrStorage = errors.New("storage failure")
)
