package documents

import "errors"

var (
	// ErrNotFound indicates the referenced document does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput indicates validation or bad input.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotOwner indicates the principal may not access the document.
	ErrNotOwner = errors.New("user not matched")
)
