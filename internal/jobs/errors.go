package jobs

import "errors"

var (
	ErrNotFound     = errors.New("job posting not found")
	ErrInvalidInput = errors.New("invalid job posting")
	ErrNotActive    = errors.New("job posting is not accepting applications")
)
