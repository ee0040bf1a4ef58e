package storage

import "errors"

// Sentinel errors shared by every store implementation.
var (
	// ErrNotFound reports that no record matches the lookup key.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateKey reports an insert whose key is already present.
	// Bars, trades and runs are written once and never updated.
	ErrDuplicateKey = errors.New("duplicate key: records are write-once")

	// ErrInvalidInput reports a nil or incomplete record.
	ErrInvalidInput = errors.New("invalid input")
)
