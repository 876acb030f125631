package models

import "errors"

// Domain error kinds. Callers wrap them with context and match with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("item not found")
	ErrDuplicate  = errors.New("item code already registered")
	ErrSchema     = errors.New("missing required columns")
	ErrFormat     = errors.New("invalid number or date format")
)

// IsClientError reports whether err belongs to the domain error taxonomy.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrDuplicate) ||
		errors.Is(err, ErrSchema) ||
		errors.Is(err, ErrFormat)
}
