package vanishing

import "errors"

// Sentinel causes wrapped by InputError.
var (
	ErrTooFewLines     = errors.New("at least two lines are required")
	ErrParallelLines   = errors.New("lines are parallel and do not intersect")
	ErrNoIntersections = errors.New("no pair of lines intersects")
	ErrEmptyImage      = errors.New("image is empty")
	ErrNonFinite       = errors.New("intersection is not finite")
)

// InputError reports a request that cannot be served because of its
// content rather than a fault in the service.
type InputError struct {
	Err error
}

func (e *InputError) Error() string {
	return e.Err.Error()
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// IsInputError reports whether err is or wraps an *InputError.
func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}
