// Package errors provides the request error type for the chat API client.
//
// Every failure of an exchange with the chat endpoint is a *RequestError. The
// Kind tag tells transport failures, non-success HTTP statuses and undecodable
// bodies apart so the presentation layer can format them as it sees fit.
package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrRequestFailed is matched by every *RequestError through errors.Is.
var ErrRequestFailed = errors.New("request failed")

// Kind tags the variant of a RequestError.
type Kind int

const (
	KindUnknown Kind = iota
	KindTransport
	KindHTTPStatus
	KindDecode
)

// String returns a short name for the kind
func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindHTTPStatus:
		return "http_status"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// RequestError is the single error kind produced by a chat exchange.
type RequestError struct {
	Kind       Kind
	StatusCode int    // set for KindHTTPStatus
	Endpoint   string // URL the request was sent to
	Detail     string // server-provided message or parse description
	Path       string // gjson path involved in a decode failure
	Cause      error
}

func (e *RequestError) Error() string {
	switch e.Kind {
	case KindTransport:
		// The underlying message is shown verbatim, as the user sees it in the transcript.
		if e.Cause != nil {
			return e.Cause.Error()
		}
		if e.Detail != "" {
			return e.Detail
		}
		return "network error"
	case KindHTTPStatus:
		msg := fmt.Sprintf("request failed with status code %d", e.StatusCode)
		if e.Detail != "" {
			msg += ": " + e.Detail
		}
		return msg
	case KindDecode:
		if e.Detail != "" {
			return "invalid response: " + e.Detail
		}
		return "invalid response"
	default:
		if e.Cause != nil {
			return e.Cause.Error()
		}
		return ErrRequestFailed.Error()
	}
}

// Unwrap returns the underlying cause
func (e *RequestError) Unwrap() error {
	return e.Cause
}

// Is allows comparison with ErrRequestFailed and with other RequestErrors of the same kind
func (e *RequestError) Is(target error) bool {
	if target == ErrRequestFailed {
		return true
	}
	if t, ok := target.(*RequestError); ok {
		return t.Kind == e.Kind
	}
	return false
}

// NewTransportError wraps a network or transport failure
func NewTransportError(endpoint string, cause error) *RequestError {
	return &RequestError{Kind: KindTransport, Endpoint: endpoint, Cause: cause}
}

// NewHTTPStatusError creates an error for a non-success HTTP status
func NewHTTPStatusError(statusCode int, endpoint, detail string) *RequestError {
	return &RequestError{
		Kind:       KindHTTPStatus,
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Detail:     detail,
	}
}

// NewDecodeError creates an error for a response body that could not be decoded
func NewDecodeError(endpoint, message, path string, cause error) *RequestError {
	return &RequestError{
		Kind:     KindDecode,
		Endpoint: endpoint,
		Detail:   message,
		Path:     path,
		Cause:    cause,
	}
}

// AsRequestError extracts a *RequestError from an error chain
func AsRequestError(err error) (*RequestError, bool) {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr, true
	}
	return nil, false
}

// KindOf returns the kind of the request error in the chain, or KindUnknown
func KindOf(err error) Kind {
	if reqErr, ok := AsRequestError(err); ok {
		return reqErr.Kind
	}
	return KindUnknown
}

// IsTransport reports whether err is a transport failure
func IsTransport(err error) bool {
	return KindOf(err) == KindTransport
}

// IsHTTPStatus reports whether err is a non-success HTTP status
func IsHTTPStatus(err error) bool {
	return KindOf(err) == KindHTTPStatus
}

// IsDecode reports whether err is a response decoding failure
func IsDecode(err error) bool {
	return KindOf(err) == KindDecode
}

// IsTimeout reports whether a transport failure was caused by a deadline
func IsTimeout(err error) bool {
	if !IsTransport(err) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// GetHTTPStatus returns the HTTP status code carried by err, or 0
func GetHTTPStatus(err error) int {
	if reqErr, ok := AsRequestError(err); ok {
		return reqErr.StatusCode
	}
	return 0
}

// GetEndpoint returns the endpoint carried by err, or ""
func GetEndpoint(err error) string {
	if reqErr, ok := AsRequestError(err); ok {
		return reqErr.Endpoint
	}
	return ""
}
