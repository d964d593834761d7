// Copyright (c) 2026 ApiWeave and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is the structured error resource produced on every failure path.
// Code disambiguates distinct causes sharing one HTTP status and is
// computed as status*100 + codeIndex.
type Error struct {
	Status           int    `json:"status"`
	Code             int    `json:"code"`
	Message          string `json:"message"`
	DeveloperMessage string `json:"developer_message,omitempty"`
	Meta             any    `json:"meta,omitempty"`
}

// NewError builds an [Error] from an HTTP status code. An empty message
// falls back to the standard reason phrase.
func NewError(status, codeIndex int, message string) *Error {
	if message == "" {
		message = http.StatusText(status)
	}
	return &Error{
		Status:  status,
		Code:    status*100 + codeIndex,
		Message: message,
	}
}

// ErrNotImplemented signals that an operation callback has no
// implementation. The dispatch pipeline maps it to 501 Not Implemented.
var ErrNotImplemented = errors.New("the method has not been implemented")

// ImmediateResponse is a control-flow signal, not a true failure: it
// carries a ready-made resource, status and headers which short-circuit
// the remaining dispatch steps and are emitted verbatim.
type ImmediateResponse struct {
	Resource any
	Status   int
	Headers  map[string]string
}

func (e *ImmediateResponse) Error() string {
	return fmt.Sprintf("immediate response: %d %s", e.Status, http.StatusText(e.Status))
}

// HTTPError is an [ImmediateResponse] specialization wrapping a generated
// [Error] resource for a given status.
type HTTPError struct {
	Resource *Error
	Headers  map[string]string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http error: %d %s", e.Resource.Status, e.Resource.Message)
}

// ErrorOption customizes the [Error] resource carried by a [HTTPError].
type ErrorOption func(*HTTPError)

// WithCodeIndex sets the code index disambiguating this error from other
// causes sharing the same status.
func WithCodeIndex(codeIndex int) ErrorOption {
	return func(e *HTTPError) {
		e.Resource.Code = e.Resource.Status*100 + codeIndex
	}
}

// WithMessage sets the user-facing message.
func WithMessage(message string) ErrorOption {
	return func(e *HTTPError) {
		e.Resource.Message = message
	}
}

// WithDeveloperMessage sets the developer-facing message.
func WithDeveloperMessage(message string) ErrorOption {
	return func(e *HTTPError) {
		e.Resource.DeveloperMessage = message
	}
}

// WithMeta attaches additional error metadata, e.g. a field to message
// mapping for validation failures.
func WithMeta(meta any) ErrorOption {
	return func(e *HTTPError) {
		e.Resource.Meta = meta
	}
}

// WithHeaders attaches response headers to emit with the error.
func WithHeaders(headers map[string]string) ErrorOption {
	return func(e *HTTPError) {
		e.Headers = headers
	}
}

// NewHTTPError builds a [HTTPError] for the given status.
func NewHTTPError(status int, opts ...ErrorOption) *HTTPError {
	e := &HTTPError{
		Resource: NewError(status, 0, ""),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// PermissionDenied signals that authorization is required before making
// this request.
func PermissionDenied(message string) *HTTPError {
	return NewHTTPError(http.StatusUnauthorized, WithMessage(message))
}

// AccessDenied signals that access to the specified resource is denied.
func AccessDenied(message string) *HTTPError {
	return NewHTTPError(http.StatusForbidden, WithMessage(message))
}
