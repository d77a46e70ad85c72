package mock

import (
	"context"
	"sync"

	"github.com/poiesic/bazaar/ai"
)

// MockChatModel is a test double for ai.ChatModel.
// It allows custom behavior injection via function fields.
type MockChatModel struct {
	// CompleteFunc is called by Complete if set.
	// If nil, Complete echoes the last user message as plain text.
	CompleteFunc func(ctx context.Context, messages []ai.Message, tools []ai.ToolDefinition) (*ai.Completion, error)

	mu        sync.Mutex
	callCount int
	requests  [][]ai.Message
}

// NewMockChatModel creates a mock chat model with default behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockChatModel() *MockChatModel {
	return &MockChatModel{}
}

// Complete records the request and returns the injected or default completion.
func (m *MockChatModel) Complete(ctx context.Context, messages []ai.Message, tools []ai.ToolDefinition) (*ai.Completion, error) {
	m.mu.Lock()
	m.callCount++
	logged := make([]ai.Message, len(messages))
	copy(logged, messages)
	m.requests = append(m.requests, logged)
	m.mu.Unlock()

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, messages, tools)
	}

	// Default: echo the last user message
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == ai.RoleUser {
			return &ai.Completion{Content: messages[i].Content}, nil
		}
	}
	return &ai.Completion{}, nil
}

// CallCount returns the number of times Complete was called.
func (m *MockChatModel) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Requests returns the message logs received, in call order.
func (m *MockChatModel) Requests() [][]ai.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]ai.Message(nil), m.requests...)
}

// Reset clears the call count, recorded requests and custom functions.
func (m *MockChatModel) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.requests = nil
	m.CompleteFunc = nil
}
