package object

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMalformedObject = errors.New("malformed object")
	ErrObjectNotFound  = errors.New("object not found")
	ErrAmbiguousPrefix = errors.New("ambiguous object prefix")
	ErrTypeMismatch    = errors.New("object type mismatch")
	ErrIO              = errors.New("object i/o")
)

// MalformedObjectError describes a frame, header or tree entry that could not
// be decoded.
type MalformedObjectError struct {
	Hash   Hash // empty when the bytes were not read from the store
	Reason string
	Err    error
}

func malformed(format string, args ...any) *MalformedObjectError {
	return &MalformedObjectError{Reason: fmt.Sprintf(format, args...)}
}

func (e *MalformedObjectError) Error() string {
	var b strings.Builder
	b.WriteString(ErrMalformedObject.Error())
	if e.Hash != "" {
		b.WriteString(" ")
		b.WriteString(string(e.Hash))
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *MalformedObjectError) Unwrap() error { return e.Err }

func (e *MalformedObjectError) Is(target error) bool { return target == ErrMalformedObject }

// NotFoundError reports a name that does not resolve to a stored object.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s", ErrObjectNotFound, e.Name)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrObjectNotFound }

// AmbiguousPrefixError reports a prefix matching more than one object.
type AmbiguousPrefixError struct {
	Prefix     string
	Candidates []Hash // sorted
}

func (e *AmbiguousPrefixError) Error() string {
	return fmt.Sprintf("%s %q matches %d objects", ErrAmbiguousPrefix, e.Prefix, len(e.Candidates))
}

func (e *AmbiguousPrefixError) Is(target error) bool { return target == ErrAmbiguousPrefix }

// TypeMismatchError reports an object read as a kind it is not.
type TypeMismatchError struct {
	Hash Hash
	Got  ObjectType
	Want ObjectType
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("object %s: expected object type %s, got %s", e.Hash, e.Want, e.Got)
}

func (e *TypeMismatchError) Is(target error) bool { return target == ErrTypeMismatch }

// IOError wraps a failure of the underlying file collaborator.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func (e *IOError) Is(target error) bool { return target == ErrIO }
