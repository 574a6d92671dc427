package extract

import (
	"context"
	"fmt"
)

// TextExtractor is Stage 1: resume blob -> plain text.
type TextExtractor interface {
	Extract(ctx context.Context, blob []byte) (string, error)
}

// Error marks a single blob as unreadable. It is isolated to its slot and
// never aborts a batch.
type Error struct {
	Cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("extract: %v", e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(cause error) *Error {
	return &Error{Cause: cause}
}
