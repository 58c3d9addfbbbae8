package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrValidation        = errors.New("validation failed")
	ErrInvalidReference  = errors.New("referenced entity does not exist")
	ErrFlightUnavailable = errors.New("flight is not available for booking")
	ErrExternalFailure   = errors.New("external provider failure")
)
