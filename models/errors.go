package models

import "errors"

var (
	// ErrInvalidInput rejects empty or unknown category names before any
	// state changes.
	ErrInvalidInput = errors.New("invalid input")

	// ErrIndexOutOfRange rejects a stale or bad item position before any
	// state changes.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrPersistence signals that the in-memory mutation was applied but
	// writing the durable snapshot failed. Callers may retry persistence
	// without re-issuing the mutation.
	ErrPersistence = errors.New("persistence failure")
)
