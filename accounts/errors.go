package accounts

import "errors"

var (
	ErrValidation     = errors.New("required field is empty")
	ErrDuplicateEmail = errors.New("email already registered")
	ErrWeakPassword   = errors.New("password must be between 6 and 72 bytes long")
	ErrWrongPassword  = errors.New("current password is incorrect")
	ErrNotFound       = errors.New("user not found")
)
