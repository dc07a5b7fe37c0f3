package repository

import "errors"

var (
	// ErrSlotConflict is returned when a session would occupy a slot that
	// another occupying session of the same tutor already holds.
	ErrSlotConflict = errors.New("slot already occupied")

	// ErrDuplicate is returned when a unique document (e.g. feedback per session) already exists.
	ErrDuplicate = errors.New("duplicate document")
)
