package assets

import "errors"

// Domain errors for asset operations.
var (
	ErrInvalidBody = errors.New("invalid request body")
	ErrMissingKeys = errors.New("at least one field key is required")
)
