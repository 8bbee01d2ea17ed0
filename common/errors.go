package common

import "errors"

// Error taxonomy shared by every package. Callers wrap these with
// fmt.Errorf("%w: ...") and test with errors.Is.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInvalidState    = errors.New("invalid state")
	ErrNotFound        = errors.New("not found")
)
