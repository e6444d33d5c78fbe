// Package apperr holds the error taxonomy shared by every domain package.
//
// Domain packages declare their sentinels with the constructors below, so a
// handler can branch on the kind (errors.Is(err, apperr.ErrNotFound)) while
// still matching the precise sentinel when it needs to.
package apperr

import "errors"

type Kind string

const (
	KindBadRequest   Kind = "bad_request"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindInvalidActor Kind = "invalid_actor"
	KindInternal     Kind = "internal"
)

// InternalMessage is the user-facing text for unexpected failures.
const InternalMessage = "Ocurrió un error interno, intente nuevamente"

var (
	ErrBadRequest   = &Error{Kind: KindBadRequest, Message: "solicitud inválida"}
	ErrNotFound     = &Error{Kind: KindNotFound, Message: "recurso no encontrado"}
	ErrConflict     = &Error{Kind: KindConflict, Message: "conflicto"}
	ErrUnauthorized = &Error{Kind: KindUnauthorized, Message: "no autorizado"}
	ErrForbidden    = &Error{Kind: KindForbidden, Message: "acceso denegado"}
	ErrInvalidActor = &Error{Kind: KindInvalidActor, Message: "actor inválido"}
	ErrInternal     = &Error{Kind: KindInternal, Message: InternalMessage}
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches either the same sentinel or the kind sentinel of the taxonomy.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if e == t {
		return true
	}
	return t == kindSentinel(e.Kind)
}

func BadRequest(message string) *Error   { return &Error{Kind: KindBadRequest, Message: message} }
func NotFound(message string) *Error     { return &Error{Kind: KindNotFound, Message: message} }
func Conflict(message string) *Error     { return &Error{Kind: KindConflict, Message: message} }
func Unauthorized(message string) *Error { return &Error{Kind: KindUnauthorized, Message: message} }
func Forbidden(message string) *Error    { return &Error{Kind: KindForbidden, Message: message} }
func InvalidActor(message string) *Error { return &Error{Kind: KindInvalidActor, Message: message} }

// KindOf reports the taxonomy kind of err; anything unclassified is internal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// MessageOf returns the user-facing message for err. Internal errors never
// expose their cause.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Kind != KindInternal {
		return appErr.Message
	}
	return InternalMessage
}

func kindSentinel(kind Kind) *Error {
	switch kind {
	case KindBadRequest:
		return ErrBadRequest
	case KindNotFound:
		return ErrNotFound
	case KindConflict:
		return ErrConflict
	case KindUnauthorized:
		return ErrUnauthorized
	case KindForbidden:
		return ErrForbidden
	case KindInvalidActor:
		return ErrInvalidActor
	default:
		return ErrInternal
	}
}
