package parse

import (
	"errors"
	"fmt"

	"github.com/signadot/ansiblels/token"
)

var (
	ErrParse  = errors.New("parse error")
	ErrSyntax = fmt.Errorf("%w: syntax", ErrParse)
)

type SyntaxError struct {
	Pos *token.Pos
	Msg string
	Err error
}

func (e *SyntaxError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrSyntax
}

func (e *SyntaxError) Error() string {
	msg := e.Msg
	if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	return fmt.Sprintf("%s: %s at %s", ErrSyntax.Error(), msg, e.Pos.String())
}
