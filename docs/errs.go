package docs

import (
	"errors"
	"fmt"
)

var (
	ErrNoDocumentation = errors.New("no DOCUMENTATION block")
	ErrNotModule       = errors.New("not a module")
	ErrDecode          = errors.New("documentation decode error")
	ErrMeta            = errors.New("malformed meta/main.yml")
)

// DocError is a problem found in the documentation block of a source
// file.  Line is 1-based within the file, 0 when unknown.
type DocError struct {
	Source string
	Line   int
	Msg    string
	Err    error
}

func (e *DocError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrDecode
}

func (e *DocError) Error() string {
	msg := e.Msg
	if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	if e.Line == 0 {
		return fmt.Sprintf("%s: %s", e.Source, msg)
	}
	return fmt.Sprintf("%s:%d: %s", e.Source, e.Line, msg)
}
