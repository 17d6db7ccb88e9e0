package scryptlib

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure conditions.
var (
	// ErrInvalidDescription indicates the contract description is structurally unusable.
	ErrInvalidDescription = errors.New("scryptlib: invalid contract description")

	// ErrNoVerifier indicates a call was verified without a configured Verifier.
	ErrNoVerifier = errors.New("scryptlib: no verifier configured")

	// ErrNotStateField indicates a field write targeted something that is not contract state.
	ErrNotStateField = errors.New("scryptlib: not a state field")

	// ErrTruncated indicates the input ended before a declared length was satisfied.
	ErrTruncated = errors.New("scryptlib: truncated data")

	// ErrTrailingBytes indicates bytes remained after every declared field was decoded.
	ErrTrailingBytes = errors.New("scryptlib: trailing bytes after last field")

	// ErrBadLengthPrefix indicates a byte that is not a valid push-data length prefix.
	ErrBadLengthPrefix = errors.New("scryptlib: bad length prefix")

	// ErrNoSeparator indicates a script without the OP_RETURN that separates code and data.
	ErrNoSeparator = errors.New("scryptlib: no code/data separator in script")

	// ErrUnresolvedPlaceholder indicates the code part template still holds a parameter placeholder.
	ErrUnresolvedPlaceholder = errors.New("scryptlib: unresolved placeholder in code part template")
)

// FunctionNotFoundError indicates the contract doesn't declare the requested public function.
type FunctionNotFoundError struct {
	Contract string
	Function string
}

func (e *FunctionNotFoundError) Error() string {
	return fmt.Sprintf("scryptlib: public function %q not found in contract %s", e.Function, e.Contract)
}

// ArgumentError indicates a constructor or function was called with the wrong number of arguments.
type ArgumentError struct {
	Function string
	Expected int
	Got      int
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("scryptlib: %s expects %d arguments, got %d", e.Function, e.Expected, e.Got)
}

// TypeError indicates a value doesn't match the declared type, or a type
// reference could not be resolved.
type TypeError struct {
	Name     string // faulting param or field name, may be empty
	Expected string
	Got      string
	Err      error
}

func (e *TypeError) Error() string {
	msg := "scryptlib: type error"
	if e.Name != "" {
		msg += fmt.Sprintf(" for %q", e.Name)
	}
	if e.Expected != "" || e.Got != "" {
		msg += fmt.Sprintf(": expected %s, got %s", e.Expected, e.Got)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *TypeError) Unwrap() error {
	return e.Err
}

// DecodeError indicates malformed script or data part bytes.
type DecodeError struct {
	Field  string
	Offset int
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("scryptlib: decode %q at byte %d: %v", e.Field, e.Offset, e.Err)
	}
	return fmt.Sprintf("scryptlib: decode at byte %d: %v", e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// EncodingError indicates a native Go value of a kind no contract value
// can be built from.
type EncodingError struct {
	Value any
	Err   error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("scryptlib: encoding error for value %T: %v", e.Value, e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// typeErrorf is shorthand for a TypeError carrying only a formatted cause.
func typeErrorf(name, format string, args ...any) *TypeError {
	return &TypeError{Name: name, Err: fmt.Errorf(format, args...)}
}
