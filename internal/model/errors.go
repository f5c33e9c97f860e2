package model

import "errors"

var (
	// ErrNotFound is returned by stores when the requested entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a unique key is already taken.
	ErrAlreadyExists = errors.New("already exists")
	// ErrVersionConflict is returned when a compare-and-swap write
	// observes a version different from the expected one.
	ErrVersionConflict = errors.New("version conflict")
)
