package service

import "errors"

// Lookup misses surfaced as 404 by handlers.
var (
	ErrEntityNotFound    = errors.New("entity not found")
	ErrQuotationNotFound = errors.New("quotation not found")
)

// State conflicts surfaced as 409 by handlers.
var (
	ErrQuotationNotPending = errors.New("quotation is not pending")
	ErrQuotationExpired    = errors.New("quotation has expired")
)

// ValidationError is a rejected payload, surfaced as 400 by handlers.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func invalid(msg string) error { return &ValidationError{Msg: msg} }

// IsValidation reports whether err is a rejected payload.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
