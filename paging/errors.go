package paging

import "errors"

var (
	// ErrConsumed is yielded when a sequence from Paginate is ranged over
	// a second time.
	ErrConsumed = errors.New("paging: sequence already consumed")

	// ErrCursorLoop is yielded when the service returns a cursor that was
	// already followed.
	ErrCursorLoop = errors.New("paging: cursor repeats")
)
