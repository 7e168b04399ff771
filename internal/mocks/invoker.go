package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/nutri-api/internal/generation"
)

// MockInvoker implements generation.Invoker for testing
type MockInvoker struct {
	// InvokeFn allows test cases to mock the Invoke behavior
	InvokeFn func(ctx context.Context, req *generation.Request) (*generation.Response, error)

	// Default response values
	Response *generation.Response
	Err      error

	mu       sync.Mutex
	requests []*generation.Request
}

var _ generation.Invoker = (*MockInvoker)(nil)

// Invoke implements the generation.Invoker interface
func (m *MockInvoker) Invoke(ctx context.Context, req *generation.Request) (*generation.Response, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.InvokeFn != nil {
		return m.InvokeFn(ctx, req)
	}
	return m.Response, m.Err
}

// CallCount returns how many times Invoke was called.
func (m *MockInvoker) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Requests returns a copy of every request passed to Invoke, in call order.
func (m *MockInvoker) Requests() []*generation.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*generation.Request(nil), m.requests...)
}

// LastRequest returns the most recent request, or nil when Invoke was never called.
func (m *MockInvoker) LastRequest() *generation.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return nil
	}
	return m.requests[len(m.requests)-1]
}

// NewMockInvokerWithStructured creates a MockInvoker that answers every
// request with the given structured value.
func NewMockInvokerWithStructured(value any) *MockInvoker {
	return &MockInvoker{
		Response: &generation.Response{Text: "{}", Structured: value},
	}
}

// NewMockInvokerWithText creates a MockInvoker that answers with free text.
func NewMockInvokerWithText(text string) *MockInvoker {
	return &MockInvoker{
		Response: &generation.Response{Text: text},
	}
}

// NewMockInvokerWithError creates a MockInvoker that fails every call.
func NewMockInvokerWithError(err error) *MockInvoker {
	return &MockInvoker{Err: err}
}

// MockInvokerWithNoOutput creates a MockInvoker that simulates an empty model answer
func MockInvokerWithNoOutput() *MockInvoker {
	return &MockInvoker{Err: generation.ErrNoOutput}
}

// MockInvokerWithContentBlocked creates a MockInvoker that simulates content being blocked
func MockInvokerWithContentBlocked() *MockInvoker {
	return &MockInvoker{Err: generation.ErrContentBlocked}
}
