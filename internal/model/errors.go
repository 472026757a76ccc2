package model

import (
	"errors"
	"fmt"
)

// Code is the numeric code of a configuration error.
type Code int

const (
	CodeNone Code = -iota
	CodeUnorderedClass
	CodeTooManyClasses
	CodeUndefinedClass
	CodeContinuousWithClasses
	CodeClassToContinuous
	CodeFeatureCountMismatch
	CodeDegenerateInterpolation
)

// Error is a coded error returned for malformed datasets and requests.
type Error struct {
	Code Code
	msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (code %d)", e.msg, e.Code)
}

var (
	ErrUnorderedClass          = &Error{Code: CodeUnorderedClass, msg: "class added out of sort order"}
	ErrTooManyClasses          = &Error{Code: CodeTooManyClasses, msg: "maximum number of classes exceeded"}
	ErrUndefinedClass          = &Error{Code: CodeUndefinedClass, msg: "sample added to undefined class"}
	ErrContinuousWithClasses   = &Error{Code: CodeContinuousWithClasses, msg: "continuous class added to a dataset with discrete classes"}
	ErrClassToContinuous       = &Error{Code: CodeClassToContinuous, msg: "discrete class added to a continuous dataset"}
	ErrFeatureCountMismatch    = &Error{Code: CodeFeatureCountMismatch, msg: "feature count does not match the dataset"}
	ErrDegenerateInterpolation = &Error{Code: CodeDegenerateInterpolation, msg: "no finite neighbour to interpolate from"}
)

// CodeOf returns the code of the first coded error in the chain of err.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeNone
}
