package resumes

import "errors"

var (
	ErrNotFound      = errors.New("resume not found")
	ErrDuplicateHash = errors.New("duplicate file hash")
	ErrInvalidInput  = errors.New("invalid input")
)
