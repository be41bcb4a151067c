package ws

import "errors"

var (
	ErrDuplicateLabel = errors.New("duplicate label")
	ErrNoSuchLabel    = errors.New("no such label")
	ErrOutOfBounds    = errors.New("program counter out of bounds")
	ErrSyntax         = errors.New("malformed whitespace source")
)
