// Package apperr defines the error taxonomy shared by the storage layer
// and the HTTP handlers. Storage raises these; handlers map the kind to
// an HTTP status code.
package apperr

import "errors"

type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindConflict
	KindUnauthorized
	KindExpired
	KindBadRequest
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NotFound(msg string) error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func Conflict(msg string) error {
	return &Error{Kind: KindConflict, Message: msg}
}

func Unauthorized(msg string) error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

func Expired(msg string) error {
	return &Error{Kind: KindExpired, Message: msg}
}

func BadRequest(msg string) error {
	return &Error{Kind: KindBadRequest, Message: msg}
}

func Internal(err error) error {
	return &Error{Kind: KindInternal, Message: err.Error(), Err: err}
}

// KindOf extracts the kind from an error chain. Anything that is not an
// *Error counts as internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
