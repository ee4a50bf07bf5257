package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/diogo/mcchat/internal/config"
	apierrors "github.com/diogo/mcchat/internal/errors"
	"github.com/diogo/mcchat/internal/models"
	"github.com/diogo/mcchat/internal/telemetry"
)

// TestNewClient tests the NewClient function
func TestNewClient(t *testing.T) {
	tests := []struct {
		name         string
		opts         []ClientOption
		wantErr      bool
		wantEndpoint string
	}{
		{
			name:         "defaults",
			wantEndpoint: models.DefaultEndpoint,
		},
		{
			name:         "custom endpoint",
			opts:         []ClientOption{WithEndpoint("http://localhost:5000/chat")},
			wantEndpoint: "http://localhost:5000/chat",
		},
		{
			name:    "relative endpoint",
			opts:    []ClientOption{WithEndpoint("/chat")},
			wantErr: true,
		},
		{
			name:    "empty endpoint",
			opts:    []ClientOption{WithEndpoint("")},
			wantErr: true,
		},
		{
			name:    "negative timeout",
			opts:    []ClientOption{WithTimeout(-time.Second)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := append([]ClientOption{WithHTTPClient(&MockHttpClient{})}, tt.opts...)
			client, err := NewClient(opts...)

			if tt.wantErr {
				if err == nil {
					t.Errorf("NewClient() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewClient() unexpected error: %v", err)
			}
			if client.Endpoint() != tt.wantEndpoint {
				t.Errorf("Endpoint() = %q, want %q", client.Endpoint(), tt.wantEndpoint)
			}
			if client.IsClosed() {
				t.Error("new client should not be closed")
			}
		})
	}
}

func TestNewClient_BuildsTransport(t *testing.T) {
	client, err := NewClient()
	if err != nil {
		t.Fatalf("NewClient() unexpected error: %v", err)
	}
	defer client.Close()

	if client.httpClient == nil {
		t.Fatal("expected a tls-client transport")
	}
}

func TestNewClientFromConfig(t *testing.T) {
	cfg := config.Config{
		Endpoint:       "https://example.com/chat",
		CompanionMode:  true,
		RestrictScope:  true,
		TimeoutSeconds: 15,
	}

	client, err := NewClientFromConfig(cfg, WithHTTPClient(&MockHttpClient{}), WithTelemetry(telemetry.Noop()))
	if err != nil {
		t.Fatalf("NewClientFromConfig() unexpected error: %v", err)
	}

	if client.Endpoint() != cfg.Endpoint {
		t.Errorf("Endpoint() = %q, want %q", client.Endpoint(), cfg.Endpoint)
	}
	if !client.CompanionMode() {
		t.Error("CompanionMode() = false, want true")
	}
	if !client.RestrictScope() {
		t.Error("RestrictScope() = false, want true")
	}
	if client.timeout != 15*time.Second {
		t.Errorf("timeout = %v, want 15s", client.timeout)
	}
}

func TestClient_Close(t *testing.T) {
	mock := &MockHttpClient{}
	client, err := NewClient(WithHTTPClient(mock))
	if err != nil {
		t.Fatal(err)
	}

	client.Close()
	client.Close() // second close is a no-op

	if !client.IsClosed() {
		t.Error("IsClosed() = false after Close()")
	}
	if !mock.IdleClosed {
		t.Error("Close() should release idle connections")
	}
}

func TestNewClient_SubSecondTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response": "late"}`))
	}))
	defer srv.Close()

	client, err := NewClient(
		WithEndpoint(srv.URL+"/chat"),
		WithTimeout(300*time.Millisecond),
		WithLogger(telemetry.DiscardLogger()),
	)
	if err != nil {
		t.Fatalf("NewClient() unexpected error: %v", err)
	}
	defer client.Close()

	start := time.Now()
	reply, err := client.Send(context.Background(), "Hi")
	elapsed := time.Since(start)

	if err == nil {
		t.Fatalf("expected timeout, got reply %+v", reply)
	}
	if !apierrors.IsTransport(err) {
		t.Errorf("expected transport error, got kind %v", apierrors.KindOf(err))
	}
	if elapsed > 1500*time.Millisecond {
		t.Errorf("Send() took %v, the 300ms timeout was not applied", elapsed)
	}
}
