package interp

import "errors"

var (
	ErrValStackEmpty   = errors.New("value stack empty")
	ErrCallStackEmpty  = errors.New("call stack empty")
	ErrDivByZero       = errors.New("division by zero")
	ErrInputExhausted  = errors.New("input exhausted")
	ErrMalformedNumber = errors.New("malformed number")
)
