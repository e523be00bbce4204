package compliance

import (
	"errors"
	"fmt"
)

// ErrEmptyWorkbook indicates an empty input buffer.
var ErrEmptyWorkbook = errors.New("empty workbook")

// ErrInvalidFormat indicates the input is neither xlsx nor CSV text.
var ErrInvalidFormat = errors.New("invalid workbook format")

// ParseError is returned when a buffer cannot be decoded as a workbook.
// No partial result accompanies it.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse failed: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError.
func NewParseError(err error) *ParseError {
	return &ParseError{Err: err}
}

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = errors.New("file not found")
