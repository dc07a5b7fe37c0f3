package service

import (
	"errors"
	"fmt"
)

// Ошибки ядра бронирования. Сравнивать через errors.Is.
var (
	ErrValidation        = errors.New("validation failed")
	ErrSlotUnavailable   = errors.New("slot unavailable")
	ErrNotFound          = errors.New("not found")
	ErrExpired           = errors.New("reservation expired")
	ErrStorage           = errors.New("storage failure")
	ErrForbidden         = errors.New("action not allowed for this user")
	ErrTooLateToCancel   = errors.New("too late to cancel")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrAlreadyProcessed  = errors.New("already processed")
	ErrFeedbackExists    = errors.New("feedback already submitted")
)

// ValidationError names the field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}

func notFound(what, id string) error {
	return fmt.Errorf("%s %q: %w", what, id, ErrNotFound)
}
