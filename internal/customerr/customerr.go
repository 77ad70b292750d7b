package customerr

import "github.com/pkg/errors"

var ErrNotFound = errors.New("not found")

// ValidationError points at the single form field that failed.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
