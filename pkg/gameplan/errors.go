package gameplan

import "errors"

// Every store operation reports failure through one of these, wrapped with
// context. Match them with errors.Is.
var (
	ErrInvalid  = errors.New("invalid input")
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)
