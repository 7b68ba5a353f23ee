package models

import "errors"

var (
	ErrEmptyPayload     = errors.New("payload is empty")
	ErrInvalidEntryType = errors.New("invalid history entry type")
	ErrUnknownQRType    = errors.New("unknown qr type")
	ErrInvalidPayload   = errors.New("invalid payload fields")
	ErrInvalidSettings  = errors.New("invalid settings")
	ErrInvalidFilter    = errors.New("invalid history filter")
)

// IsValidation reports whether err is an input error that leaves state untouched.
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptyPayload) ||
		errors.Is(err, ErrInvalidEntryType) ||
		errors.Is(err, ErrUnknownQRType) ||
		errors.Is(err, ErrInvalidPayload) ||
		errors.Is(err, ErrInvalidSettings) ||
		errors.Is(err, ErrInvalidFilter)
}
