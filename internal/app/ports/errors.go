package ports

import "errors"

// Archive lookup and write-once outcomes shared by all repository adapters.
var (
	ErrNotFound = errors.New("artifact not found")
	ErrConflict = errors.New("artifact conflict")
)
