package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestRequestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *RequestError
		want string
	}{
		{
			name: "transport shows cause verbatim",
			err:  NewTransportError("https://x", errors.New("timeout")),
			want: "timeout",
		},
		{
			name: "transport without cause",
			err:  &RequestError{Kind: KindTransport},
			want: "network error",
		},
		{
			name: "transport with detail only",
			err:  &RequestError{Kind: KindTransport, Detail: "connection refused"},
			want: "connection refused",
		},
		{
			name: "status with detail",
			err:  NewHTTPStatusError(500, "https://x", "Server error"),
			want: "request failed with status code 500: Server error",
		},
		{
			name: "status without detail",
			err:  NewHTTPStatusError(404, "https://x", ""),
			want: "request failed with status code 404",
		},
		{
			name: "decode with detail",
			err:  NewDecodeError("https://x", "missing response field", "response", nil),
			want: "invalid response: missing response field",
		},
		{
			name: "decode without detail",
			err:  NewDecodeError("https://x", "", "", nil),
			want: "invalid response",
		},
		{
			name: "unknown kind",
			err:  &RequestError{},
			want: "request failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRequestError_Is(t *testing.T) {
	transport := NewTransportError("https://x", errors.New("boom"))
	status := NewHTTPStatusError(502, "https://x", "")

	if !errors.Is(transport, ErrRequestFailed) {
		t.Error("transport error should match ErrRequestFailed")
	}
	if !errors.Is(status, ErrRequestFailed) {
		t.Error("status error should match ErrRequestFailed")
	}
	if !errors.Is(transport, &RequestError{Kind: KindTransport}) {
		t.Error("transport error should match another transport error")
	}
	if errors.Is(transport, &RequestError{Kind: KindDecode}) {
		t.Error("transport error should not match a decode error")
	}
	if errors.Is(errors.New("plain"), ErrRequestFailed) {
		t.Error("plain error should not match ErrRequestFailed")
	}
}

func TestRequestError_Unwrap(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := NewTransportError("https://x", cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is should reach the cause")
	}
	if errors.Unwrap(err) != cause {
		t.Error("Unwrap should return the cause")
	}
}

func TestKindHelpers(t *testing.T) {
	wrapped := fmt.Errorf("sending: %w", NewHTTPStatusError(503, "https://x", ""))

	if KindOf(wrapped) != KindHTTPStatus {
		t.Errorf("KindOf() = %v, want http_status", KindOf(wrapped))
	}
	if !IsHTTPStatus(wrapped) {
		t.Error("IsHTTPStatus should see through wrapping")
	}
	if IsTransport(wrapped) || IsDecode(wrapped) {
		t.Error("status error reported as another kind")
	}
	if GetHTTPStatus(wrapped) != 503 {
		t.Errorf("GetHTTPStatus() = %d, want 503", GetHTTPStatus(wrapped))
	}
	if GetEndpoint(wrapped) != "https://x" {
		t.Errorf("GetEndpoint() = %q", GetEndpoint(wrapped))
	}

	plain := errors.New("plain")
	if KindOf(plain) != KindUnknown {
		t.Error("plain error should be KindUnknown")
	}
	if GetHTTPStatus(plain) != 0 || GetEndpoint(plain) != "" {
		t.Error("plain error should carry no status or endpoint")
	}
	if _, ok := AsRequestError(nil); ok {
		t.Error("AsRequestError(nil) should fail")
	}
}

func TestIsTimeout(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"deadline", NewTransportError("https://x", context.DeadlineExceeded), true},
		{"net timeout", NewTransportError("https://x", timeoutErr{}), true},
		{"other transport", NewTransportError("https://x", errors.New("refused")), false},
		{"status error", NewHTTPStatusError(504, "https://x", ""), false},
		{"plain deadline", context.DeadlineExceeded, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTimeout(tt.err); got != tt.want {
				t.Errorf("IsTimeout() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKind_String(t *testing.T) {
	tests := map[Kind]string{
		KindUnknown:    "unknown",
		KindTransport:  "transport",
		KindHTTPStatus: "http_status",
		KindDecode:     "decode",
	}
	for k, want := range tests {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}
