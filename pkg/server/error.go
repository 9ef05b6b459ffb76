package server

import (
	"errors"
	"fmt"
)

type Error struct {
	orig error
	msg  string
	code error
}

func (e *Error) Error() string {
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.orig
}

func WrapErrorf(orig error, code error, format string, a ...interface{}) error {
	return &Error{
		code: code,
		orig: orig,
		msg:  fmt.Sprintf(format, a...),
	}
}

func (e *Error) Code() error {
	return e.code
}

// CodeOf returns the code of the outermost *Error in err's chain, or
// ErrInternalServerError when err carries none.
func CodeOf(err error) error {
	var ierr *Error
	if errors.As(err, &ierr) && ierr.code != nil {
		return ierr.code
	}
	return ErrInternalServerError
}

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("internal Server Error")
	// ErrNotFound will throw if the requested solution or snapshot does not exist
	ErrNotFound = errors.New("your requested Item is not found")
	// ErrConflict will throw if a view switch superseded the request
	ErrConflict = errors.New("request was superseded by a newer view switch")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput = errors.New("given Param is not valid")
	// ErrUpstream will throw if the solver service fails or is unreachable
	ErrUpstream = errors.New("solver service is unavailable")
)
