package pdf

import (
	"errors"
	"fmt"
)

// ErrPageOutOfRange is returned when a page number is below 1 or past the
// last page of the document.
var ErrPageOutOfRange = errors.New("page out of range")

// PageError ties a failure to the document and page it happened on.
type PageError struct {
	Path string
	Page int
	Err  error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("%s page %d: %v", e.Path, e.Page, e.Err)
}

func (e *PageError) Unwrap() error {
	return e.Err
}
