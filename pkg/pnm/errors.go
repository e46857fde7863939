package pnm

import (
	"errors"
	"fmt"
)

// Kind classifies the failures reported by this package.
type Kind int

const (
	// LimitOverflow: width, height or maxval outside [1, 65535].
	LimitOverflow Kind = iota + 1
	// ValueOutOfRange: pixel coordinate, comment index or variant out of bounds.
	ValueOutOfRange
	// MemoryFailure: the pixel buffer could not be allocated.
	MemoryFailure
	// OutputFileFailure: the destination could not be opened or fully written.
	OutputFileFailure
	// WrongHeader: bad magic number or an incomplete/malformed header.
	WrongHeader
	// ReadFailure: fewer rows or bytes than the header declared.
	ReadFailure
	// Uninitialized: the image was closed, or its dimensions changed
	// without a call to Initialize.
	Uninitialized
)

var kindNames = map[Kind]string{
	LimitOverflow:     "limit overflow",
	ValueOutOfRange:   "value out of range",
	MemoryFailure:     "memory failure",
	OutputFileFailure: "output file failure",
	WrongHeader:       "wrong header",
	ReadFailure:       "read failure",
	Uninitialized:     "uninitialized",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Sentinel errors, one per Kind. Every *Error matches the sentinel of its
// kind under errors.Is.
var (
	ErrLimitOverflow     = errors.New("pnm: limit overflow")
	ErrValueOutOfRange   = errors.New("pnm: value out of range")
	ErrMemoryFailure     = errors.New("pnm: memory failure")
	ErrOutputFileFailure = errors.New("pnm: output file failure")
	ErrWrongHeader       = errors.New("pnm: wrong header")
	ErrReadFailure       = errors.New("pnm: read failure")
	ErrUninitialized     = errors.New("pnm: uninitialized image")
)

var kindSentinels = map[Kind]error{
	LimitOverflow:     ErrLimitOverflow,
	ValueOutOfRange:   ErrValueOutOfRange,
	MemoryFailure:     ErrMemoryFailure,
	OutputFileFailure: ErrOutputFileFailure,
	WrongHeader:       ErrWrongHeader,
	ReadFailure:       ErrReadFailure,
	Uninitialized:     ErrUninitialized,
}

// Error is the error type returned by every fallible operation in this
// package.
type Error struct {
	Kind Kind   // failure class
	Op   string // operation that failed, e.g. "set width" or "decode"
	Msg  string // diagnostic naming the offending value and bound
	Err  error  // underlying cause, if any
}

func (e *Error) Error() string {
	s := "pnm: " + e.Op + ": " + e.Msg
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}

// KindOf returns the Kind carried by err, or 0 if err does not wrap an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// newError builds an *Error and records the diagnostic on the package logger.
func newError(kind Kind, op string, cause error, format string, args ...interface{}) *Error {
	e := &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...), Err: cause}
	if cause != nil {
		Logger().Error(e.Msg, "op", op, "kind", kind.String(), "error", cause)
	} else {
		Logger().Error(e.Msg, "op", op, "kind", kind.String())
	}
	return e
}
