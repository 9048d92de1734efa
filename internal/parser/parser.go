package parser

import (
	"fmt"
	"io"
)

// Parser reads the shop's job sheet exports
type Parser interface {
	ParseJobs(r io.Reader) ([]JobRow, error)
}

// ValidationError points at the sheet cell that could not be read
type ValidationError struct {
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("row %d, column %s: cannot read %q: %v", e.Row, e.Column, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
