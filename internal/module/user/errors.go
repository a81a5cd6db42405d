package user

import "errors"

// Module errors.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrInvalidBirthInfo   = errors.New("invalid birth information")
	ErrInvalidSex         = errors.New("invalid sex value")
)
