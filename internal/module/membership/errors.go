package membership

import "errors"

// Module errors.
var (
	ErrQuotaNotFound = errors.New("quota record not found")
	ErrQuotaExceeded = errors.New("free generation quota exceeded")
)
