package store

import "errors"

var (
	// ErrNotFound is returned when a record or key does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a record collides with an existing one.
	ErrAlreadyExists = errors.New("already exists")
	// ErrConflict is returned when another writer changed a table since it was loaded.
	ErrConflict = errors.New("concurrent modification")
	// ErrInvalid is returned for records or arguments that fail validation.
	ErrInvalid = errors.New("invalid")
	// ErrForbidden is returned when the acting user may not perform the change.
	ErrForbidden = errors.New("forbidden")
	// ErrUnsupportedSchema is returned for snapshots written by a newer schema.
	ErrUnsupportedSchema = errors.New("unsupported schema version")
	// ErrClosed is returned by operations on a closed store.
	ErrClosed = errors.New("store closed")
)
