package api

import (
	"context"
	"sync"

	"github.com/diogo/mcchat/internal/models"
)

// MockChatClient is a mock implementation of ChatClient for testing
type MockChatClient struct {
	// Mock return values
	Reply       *models.Reply
	Err         error
	EndpointVal string

	// SendFunc, when set, replaces the fixed Reply/Err
	SendFunc func(ctx context.Context, text string) (*models.Reply, error)

	mu    sync.Mutex
	texts []string
}

// Ensure MockChatClient implements ChatClient
var _ ChatClient = (*MockChatClient)(nil)

// NewMockChatClient returns a mock that answers every message with reply
func NewMockChatClient(reply string) *MockChatClient {
	return &MockChatClient{Reply: &models.Reply{Text: reply}}
}

// NewMockChatClientWithError returns a mock that fails every message with err
func NewMockChatClientWithError(err error) *MockChatClient {
	return &MockChatClient{Err: err}
}

func (m *MockChatClient) Send(ctx context.Context, text string) (*models.Reply, error) {
	m.mu.Lock()
	m.texts = append(m.texts, text)
	fn := m.SendFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, text)
	}
	return m.Reply, m.Err
}

func (m *MockChatClient) Endpoint() string {
	if m.EndpointVal == "" {
		return models.DefaultEndpoint
	}
	return m.EndpointVal
}

// Calls returns the number of Send calls so far
func (m *MockChatClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.texts)
}

// Texts returns the texts passed to Send, in call order
func (m *MockChatClient) Texts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.texts...)
}
