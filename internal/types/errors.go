package types

import (
	"errors"
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// ErrorKind classifies a failure of a resolution run. Every kind is fatal
// for the run that produced it.
type ErrorKind string

const (
	ErrorKindNone               ErrorKind = ""
	ErrorKindSchema             ErrorKind = "SchemaError"
	ErrorKindUnsupportedShape   ErrorKind = "UnsupportedShapeError"
	ErrorKindTypeCoercion       ErrorKind = "TypeCoercionError"
	ErrorKindInputFile          ErrorKind = "InputFileError"
	ErrorKindUnconsumedOverride ErrorKind = "UnconsumedOverrideError"
)

// Error tags a coded error with the kind of rule it violated.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Err.Error())
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Code returns the errbuilder code of the wrapped error.
func (e *Error) Code() errbuilder.ErrCode {
	return errbuilder.CodeOf(e.Err)
}

func newKindError(kind ErrorKind, code errbuilder.ErrCode, msg string, cause error) error {
	builder := errbuilder.New().
		WithCode(code).
		WithMsg(msg)
	if cause != nil {
		builder = builder.WithCause(cause)
	}
	return &Error{Kind: kind, Err: builder}
}

func SchemaError(msg string) error {
	return newKindError(ErrorKindSchema, errbuilder.CodeInvalidArgument, msg, nil)
}

func SchemaErrorf(format string, args ...any) error {
	return SchemaError(fmt.Sprintf(format, args...))
}

func UnsupportedShapeError(variable string, rank int) error {
	return newKindError(
		ErrorKindUnsupportedShape,
		errbuilder.CodeInvalidArgument,
		fmt.Sprintf("variable %s declares a %d-dimensional array; only 1 or 2 dimensions are supported", variable, rank),
		nil,
	)
}

func TypeCoercionError(variable string, datatype Datatype, raw string, cause error) error {
	return newKindError(
		ErrorKindTypeCoercion,
		errbuilder.CodeInvalidArgument,
		fmt.Sprintf("variable %s: %q is not a valid %s value", variable, raw, datatype),
		cause,
	)
}

func InputFileError(msg string, cause error) error {
	return newKindError(ErrorKindInputFile, errbuilder.CodeNotFound, msg, cause)
}

func UnconsumedOverrideError(names []string) error {
	return newKindError(
		ErrorKindUnconsumedOverride,
		errbuilder.CodeFailedPrecondition,
		fmt.Sprintf("input file sets variables that were never resolved: %v", names),
		nil,
	)
}

// KindOf returns the kind of err, or ErrorKindNone when err was not
// produced by the resolver.
func KindOf(err error) ErrorKind {
	var kindErr *Error
	if errors.As(err, &kindErr) {
		return kindErr.Kind
	}
	return ErrorKindNone
}

func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}
