package llm

import (
	"context"
	"sync"
)

// MockClient is a scripted Client for tests. ChatFunc, when set, answers
// every call; otherwise Responses are returned in order and the last one
// repeats.
type MockClient struct {
	ChatFunc  func(ctx context.Context, prompt string) (string, error)
	Responses []string
	Err       error

	mu      sync.Mutex
	prompts []string
}

// Chat records the prompt and returns the scripted reply.
func (m *MockClient) Chat(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	n := len(m.prompts)
	m.mu.Unlock()

	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, prompt)
	}
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Responses) == 0 {
		return "", nil
	}
	if n > len(m.Responses) {
		n = len(m.Responses)
	}
	return m.Responses[n-1], nil
}

// Name identifies the mock.
func (m *MockClient) Name() string {
	return "mock"
}

// Prompts returns every prompt received so far.
func (m *MockClient) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.prompts))
	copy(out, m.prompts)
	return out
}

// Calls returns the number of Chat calls.
func (m *MockClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}
