package ledger

import "errors"

var (
	// ErrInvalidInput is returned when caller-supplied values violate the schema.
	ErrInvalidInput = errors.New("invalid input")

	// ErrIndexOutOfRange is returned when a positional index is outside the table.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrNotFound is returned when no record has the requested ID.
	ErrNotFound = errors.New("record not found")

	// ErrCorruptData is returned when a persisted row cannot be parsed.
	ErrCorruptData = errors.New("corrupt data")

	// ErrStorage is returned when the backing file cannot be read or replaced.
	ErrStorage = errors.New("storage error")
)
