// Package errs holds the error taxonomy shared by every sqlkit package.
//
// Every error produced by sqlkit itself matches exactly one kind via errors.Is.
// Failures coming from the database driver are returned untouched by the
// execution calls; sqlkit.Factory.Translate maps them onto the constraint kinds.
package errs

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

var (
	// ErrIllegalState is a builder operation called out of order.
	ErrIllegalState = errors.New("[sqlkit] illegal state")
	// ErrIllegalArgument is a malformed value handed to a builder or mapper.
	ErrIllegalArgument = errors.New("[sqlkit] illegal argument")
	// ErrUnresolvedPlaceholder is a template placeholder without a bound value.
	ErrUnresolvedPlaceholder = errors.New("[sqlkit] unresolved placeholder")
	// ErrDataIntegrity is a row that does not fit the mapper reading it.
	ErrDataIntegrity = errors.New("[sqlkit] data integrity violation")
	// ErrConflict is more than one row where at most one was expected.
	ErrConflict = errors.New("[sqlkit] conflict")
	// ErrNotFound is zero rows where one was required.
	ErrNotFound = errors.New("[sqlkit] not found")
	// ErrNoUpdate is an update statement that affected no rows.
	ErrNoUpdate = errors.New("[sqlkit] no rows affected")
	// ErrExecution is a driver failure that matched no finer kind.
	ErrExecution = errors.New("[sqlkit] execution failed")

	ErrDuplicateKey = errors.New("[sqlkit] duplicate key")
	ErrForeignKey   = errors.New("[sqlkit] foreign key violation")
	ErrConstraint   = errors.New("[sqlkit] constraint violation")
)

// Error attaches context and an optional cause to one of the kinds above.
type Error struct {
	Kind  error
	While string
	Cause error
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.While != "" {
		msg += ": " + e.While
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New builds an error of the given kind, recording the call stack.
func New(kind error, format string, args ...any) error {
	return pkgerrors.WithStack(&Error{Kind: kind, While: fmt.Sprintf(format, args...)})
}

// Wrap builds an error of the given kind around cause. A nil cause yields nil.
func Wrap(kind error, cause error, format string, args ...any) error {
	if cause == nil {
		return nil
	}
	return pkgerrors.WithStack(&Error{Kind: kind, While: fmt.Sprintf(format, args...), Cause: cause})
}

func IllegalState(format string, args ...any) error {
	return New(ErrIllegalState, format, args...)
}

func IllegalArgument(format string, args ...any) error {
	return New(ErrIllegalArgument, format, args...)
}

func DataIntegrity(format string, args ...any) error {
	return New(ErrDataIntegrity, format, args...)
}

// KindOf reports which sqlkit kind err matches, or nil.
func KindOf(err error) error {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return nil
}
