// Package apperr defines the closed set of failures the service reports to
// clients. Every failure carries a kind, a client-safe message and maps to
// exactly one HTTP status code.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind identifies a failure variant.
type Kind string

const (
	KindBadRequest    Kind = "bad_request"
	KindTranscription Kind = "transcription"
	KindInsights      Kind = "insights"
	KindFileStorage   Kind = "file_storage"
	KindApplication   Kind = "application"
	KindNotFound      Kind = "not_found"
)

// Default messages, used when a constructor is given an empty message.
const (
	MsgTranscription = "Error during audio transcription."
	MsgInsights      = "Error generating insights."
	MsgFileStorage   = "Error during file storage operation."
	MsgInternal      = "An unexpected internal server error occurred."
	MsgNotFound      = "The requested resource was not found."
)

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	switch k {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error is a typed failure. Message is what the client sees; Err is the
// underlying cause and is only logged.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return "application error"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Status returns the HTTP status code of the failure.
func (e *Error) Status() int {
	return e.Kind.Status()
}

func newError(kind Kind, msg, fallback string, err error) *Error {
	if msg == "" {
		msg = fallback
	}
	return &Error{Kind: kind, Message: msg, Err: err}
}

func BadRequest(msg string) *Error {
	return newError(KindBadRequest, msg, "Bad request.", nil)
}

func Transcription(msg string, err error) *Error {
	return newError(KindTranscription, msg, MsgTranscription, err)
}

func Insights(msg string, err error) *Error {
	return newError(KindInsights, msg, MsgInsights, err)
}

func FileStorage(msg string, err error) *Error {
	return newError(KindFileStorage, msg, MsgFileStorage, err)
}

func Application(msg string, err error) *Error {
	return newError(KindApplication, msg, MsgInternal, err)
}

func NotFound() *Error {
	return newError(KindNotFound, MsgNotFound, MsgNotFound, nil)
}

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) && appErr != nil {
		return appErr, true
	}
	return nil, false
}

// IsKind reports whether err's chain contains a failure of the given kind.
func IsKind(err error, kind Kind) bool {
	appErr, ok := As(err)
	return ok && appErr.Kind == kind
}

// Translate maps any error to a typed failure. Typed failures pass through;
// anything else becomes an Application failure with the fallback message so
// internal error text never reaches the client.
func Translate(err error, fallback string) *Error {
	if err == nil {
		return nil
	}
	if appErr, ok := As(err); ok {
		return appErr
	}
	return Application(fallback, err)
}

// Envelope is the only error body shape sent over the wire.
type Envelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Envelope renders the failure for the client.
func (e *Error) Envelope() Envelope {
	return Envelope{Status: "error", Message: e.Message}
}
