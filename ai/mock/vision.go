package mock

import (
	"context"
	"sync"
)

// MockImageDescriber is a test double for ai.ImageDescriber.
type MockImageDescriber struct {
	// DescribeImageFunc is called by DescribeImage if set.
	// If nil, returns "item".
	DescribeImageFunc func(ctx context.Context, image []byte, mimeType string) (string, error)

	mu        sync.Mutex
	callCount int
}

// NewMockImageDescriber creates a mock image describer with default behavior.
func NewMockImageDescriber() *MockImageDescriber {
	return &MockImageDescriber{}
}

// DescribeImage returns the injected or default description.
func (m *MockImageDescriber) DescribeImage(ctx context.Context, image []byte, mimeType string) (string, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.DescribeImageFunc != nil {
		return m.DescribeImageFunc(ctx, image, mimeType)
	}
	return "item", nil
}

// CallCount returns the number of times DescribeImage was called.
func (m *MockImageDescriber) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockImageDescriber) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.DescribeImageFunc = nil
}
