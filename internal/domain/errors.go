package domain

import "errors"

var (
	// ErrNotFound is returned when no employee matches the requested id.
	ErrNotFound = errors.New("employee not found")
	// ErrDuplicateEmail is returned when the email is already used by another employee.
	ErrDuplicateEmail = errors.New("employee email already exists")
)
