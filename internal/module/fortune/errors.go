package fortune

import "errors"

// Module errors.
var (
	ErrResultNotFound   = errors.New("fortune result not found")
	ErrGenerationFailed = errors.New("fortune generation failed")
	ErrDuplicateResult  = errors.New("result already exists for this cache key")
	ErrInvalidRequest   = errors.New("invalid fortune request")
	ErrUnknownKind      = errors.New("unknown fortune kind")
)
