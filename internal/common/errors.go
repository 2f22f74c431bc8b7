// Package common defines the sentinel errors shared by the session, cart and
// catalog services and by every document store backend. Callers should use
// errors.Is to match these values; the sentinel is the reported kind of a
// failed operation.
package common

import "errors"

var (
	// Validation errors. ErrInvalidLength and ErrNotAlphanumeric both match
	// ErrValidation via errors.Is.
	ErrValidation      = errors.New("validation error")
	ErrInvalidLength   = &subError{kind: ErrValidation, msg: "username and password must be at least 5 characters"}
	ErrNotAlphanumeric = &subError{kind: ErrValidation, msg: "username may contain letters and digits only"}

	// Entity errors.
	ErrDuplicate = errors.New("already exists")
	ErrNotFound  = errors.New("not found")

	// Auth errors.
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")

	// Remote store errors.
	ErrRemoteCall        = errors.New("remote call failed")
	ErrInconsistentState = errors.New("inconsistent state")
)

// subError is a distinct error that also reports a broader kind.
type subError struct {
	kind error
	msg  string
}

func (e *subError) Error() string { return e.kind.Error() + ": " + e.msg }

func (e *subError) Is(target error) bool { return target == e.kind }

// Remote wraps a failure returned by a document store so that it matches
// ErrRemoteCall while keeping the original cause reachable. Not-found
// conditions reported by the store are passed through unchanged.
func Remote(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) {
		return err
	}
	return &remoteError{op: op, err: err}
}

type remoteError struct {
	op  string
	err error
}

func (e *remoteError) Error() string { return e.op + ": " + ErrRemoteCall.Error() + ": " + e.err.Error() }

func (e *remoteError) Unwrap() []error { return []error{ErrRemoteCall, e.err} }
