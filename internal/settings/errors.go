package settings

import "errors"

var (
	// ErrUnknownKey is returned when a key is not one of the persisted settings
	ErrUnknownKey = errors.New("unknown settings key")

	// ErrInvalidValue is returned when a stored or supplied value is not a boolean
	ErrInvalidValue = errors.New("invalid settings value")
)
