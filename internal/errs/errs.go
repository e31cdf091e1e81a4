// Package errs defines the error kinds shared by the rating ledger and the
// helpers that attach an operation name to them.
//
// Callers match kinds with errors.Is; the op string is for logs only.
package errs

import (
	"errors"
	"strings"
)

// Sentinel error kinds.
var (
	// ErrInvalidInput marks a caller contract violation: duplicate duel items,
	// unknown items or partitions, a winner outside {A, B}.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound marks a partition key that was never enumerated.
	ErrNotFound = errors.New("not found")
	// ErrInsufficientCatalog is returned when fewer than two items exist.
	ErrInsufficientCatalog = errors.New("insufficient catalog")
	// ErrPersistence marks a failed blob load, save or delete.
	ErrPersistence = errors.New("persistence failure")
	// ErrSerialization marks a blob that cannot be decoded into a store.
	ErrSerialization = errors.New("serialization failure")
)

// Error binds an operation name to an error kind and an optional cause.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	switch {
	case e.Kind != nil && e.Err != nil:
		b.WriteString(e.Kind.Error())
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	case e.Kind != nil:
		b.WriteString(e.Kind.Error())
	case e.Err != nil:
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// NewKind returns an error of the given kind without a cause.
func NewKind(op string, kind error) error {
	return &Error{Op: op, Kind: kind}
}

// Wrap annotates err with op. A nil err stays nil.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

// WrapKind annotates err with op and classifies it as kind.
func WrapKind(op string, kind, err error) error {
	if err == nil {
		return NewKind(op, kind)
	}
	return &Error{Op: op, Kind: kind, Err: err}
}

// Invalid is shorthand for an ErrInvalidInput with a message.
func Invalid(op, msg string) error {
	return &Error{Op: op, Kind: ErrInvalidInput, Err: errors.New(msg)}
}
