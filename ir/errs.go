package ir

import "errors"

var ErrKind = errors.New("unrecognized kind")
