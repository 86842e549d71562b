package entities

import "errors"

// Common errors
var (
	ErrShiftNotFound       = errors.New("shift not found")
	ErrTaskNotFound        = errors.New("task not found")
	ErrMemoNotFound        = errors.New("memo not found")
	ErrCatalogTaskNotFound = errors.New("catalog task not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrStoreNotFound       = errors.New("store not found")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrValidation          = errors.New("validation failed")
	ErrNoChangeRequest     = errors.New("shift has no pending change request")
	ErrMissingActor        = errors.New("acting user is required")
	ErrUnauthorized        = errors.New("unauthorized")
)
