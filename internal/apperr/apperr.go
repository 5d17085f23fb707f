// Package apperr defines the small closed set of domain error kinds shared
// by the Session Store, Conversation Engine, LLM Client, and HTTP Surface
// (spec §6/§7). Kinds are carried as a field on a single error type rather
// than as distinct Go types, so callers can wrap/unwrap with the standard
// errors package while still switching on Kind for HTTP status mapping —
// the same shape as the teacher's internal/httpapi error handling, minus its
// REST-framework-specific helpers.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is one of the seven domain error kinds named by the specification.
type Kind string

const (
	InvalidInput         Kind = "InvalidInput"
	NotFound             Kind = "NotFound"
	InvalidTransition    Kind = "InvalidTransition"
	Expired              Kind = "Expired"
	GenerationTimeout    Kind = "GenerationTimeout"
	GenerationIncomplete Kind = "GenerationIncomplete"
	Unavailable          Kind = "Unavailable"
)

// Error wraps an underlying cause with a domain Kind and optional extra
// context (e.g. current stage on InvalidTransition) for the caller to
// surface back to the client.
type Error struct {
	Kind    Kind
	Message string
	Stage   string // set via WithStage (InvalidTransition, and some InvalidInput errors); empty otherwise
	cause   error
}

func (e *Error) Error() string {
	if e.Stage != "" {
		return fmt.Sprintf("%s: %s (stage=%s)", e.Kind, e.Message, e.Stage)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New builds a domain error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches a domain kind to an underlying cause, preserving it for
// errors.Is/As.
func Wrap(kind Kind, cause error, message string) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// WithStage attaches the session's current stage to an error (an
// InvalidTransition, or an InvalidInput rejected at that stage) so the
// client can recover without a second round trip.
func (e *Error) WithStage(stage string) *Error {
	e.Stage = stage
	return e
}

// KindOf extracts the Kind from err if it is (or wraps) an *Error, defaulting
// to Unavailable for anything unrecognized — an opaque downstream failure is
// treated as a transient, retry-safe condition rather than surfaced as a 500.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return Unavailable
}

// MessageOf extracts the human-readable message from err if it is (or
// wraps) an *Error, falling back to err.Error() for anything unrecognized.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}

// StageOf extracts the stage attached to err if it is (or wraps) an *Error,
// returning "" when none was set or err is not a domain error.
func StageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Stage
	}
	return ""
}

// StatusCode maps a domain error to the HTTP status table in spec §6.
func StatusCode(err error) int {
	switch KindOf(err) {
	case InvalidInput:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case InvalidTransition:
		return http.StatusConflict
	case Expired:
		return http.StatusGone
	case GenerationTimeout:
		return http.StatusGatewayTimeout
	case GenerationIncomplete:
		return http.StatusBadGateway
	case Unavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
