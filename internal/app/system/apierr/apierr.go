// Package apierr defines the error taxonomy shared by stores, policies,
// and HTTP handlers. Stores attach a Kind to every rejection; the HTTP
// layer maps kinds to status codes without translation in between.
package apierr

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Kind classifies an error for HTTP mapping.
type Kind int

const (
	// Internal is the default for anything unclassified (storage faults,
	// programming errors). Its message is never sent to clients.
	Internal Kind = iota
	// InvalidArgument rejects malformed or incomplete input.
	InvalidArgument
	// Unauthenticated rejects requests without a valid identity.
	Unauthenticated
	// Forbidden rejects authenticated requests that fail an authorization rule.
	Forbidden
	// NotFound rejects references that do not resolve.
	NotFound
)

// Error carries a kind, a client-safe message, and an optional cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// New returns an error of the given kind with a client-safe message.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap attaches a kind and client-safe message to an underlying cause.
func Wrap(kind Kind, msg string, err error) error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf extracts the Kind from err, or Internal if it has none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Is lets errors.Is match two apierr values by kind and message, so
// stores can expose comparable sentinels.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind && e.Msg == t.Msg
}

// HTTPStatus maps a kind to its status code.
func HTTPStatus(kind Kind) int {
	switch kind {
	case InvalidArgument:
		return http.StatusBadRequest
	case Unauthenticated:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Write sends err as a JSON error response. Internal errors get a generic
// message; everything else sends the client-safe Msg.
func Write(w http.ResponseWriter, err error) {
	kind := KindOf(err)
	msg := "internal server error"
	if kind != Internal {
		var e *Error
		if errors.As(err, &e) {
			msg = e.Msg
		} else {
			msg = err.Error()
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(HTTPStatus(kind))
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
