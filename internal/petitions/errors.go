package petitions

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

// InsufficientTextError reports a PDF whose extracted text is too short to
// classify. Extracted carries what little text came out, for the caller.
type InsufficientTextError struct {
	Extracted string
}

func (e *InsufficientTextError) Error() string {
	return "could not extract readable text from the PDF"
}
