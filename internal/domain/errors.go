package domain

import "errors"

// Common errors
var (
	ErrNotFound   = errors.New("record not found")
	ErrForbidden  = errors.New("access forbidden: you don't own this resource")
	ErrInvalidID  = errors.New("invalid id")
	ErrValidation = errors.New("validation failed")
	ErrCacheMiss  = errors.New("cache miss")
)
