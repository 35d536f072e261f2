package store

import (
	"errors"
	"fmt"
)

// Kind is the closed set of failure classes every driver maps its errors into.
type Kind int

const (
	KindUnavailable Kind = iota
	KindUnauthorized
	KindCredential
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindCredential:
		return "credential"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "unavailable"
	}
}

type Error struct {
	Kind       Kind
	Op         string
	Collection string
	Err        error
}

func (e *Error) Error() string {
	return fmt.Sprintf("store %s %s (%s): %v", e.Op, e.Collection, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf reports the kind of a store error. Errors that did not come
// through a driver are treated as KindUnavailable.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindUnavailable
}

func IsUnauthorized(err error) bool {
	var se *Error
	return errors.As(err, &se) && se.Kind == KindUnauthorized
}

func newError(kind Kind, op, collection string, err error) *Error {
	return &Error{Kind: kind, Op: op, Collection: collection, Err: err}
}
