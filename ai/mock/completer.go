package mock

import (
	"context"
	"strings"

	"github.com/openfar/farbot/ai"
)

// MockCompleter is a test double for ai.Completer.
// It allows custom behavior injection via function fields.
type MockCompleter struct {
	// CompleteFunc is called by Complete if set.
	// If nil, uses default canned behavior.
	CompleteFunc func(ctx context.Context, req ai.CompletionRequest) (*ai.Completion, error)

	// Requests records every request passed to Complete, in order.
	Requests []ai.CompletionRequest

	callCount int
}

// NewMockCompleter creates a mock completer with default canned behavior.
// Note: Returns concrete type to allow test assertions via GetMockCompleter().
func NewMockCompleter() *MockCompleter {
	return &MockCompleter{}
}

// Complete records the request and returns either the injected behavior or
// a canned answer echoing the user message.
func (m *MockCompleter) Complete(ctx context.Context, req ai.CompletionRequest) (*ai.Completion, error) {
	m.callCount++
	m.Requests = append(m.Requests, req)

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, req)
	}

	text := "Mock answer to: " + req.UserMessage
	return &ai.Completion{
		Text:       text,
		TokenCount: len(strings.Fields(text)),
	}, nil
}

// CallCount returns the number of times Complete was called.
func (m *MockCompleter) CallCount() int {
	return m.callCount
}

// LastRequest returns the most recent request, or nil if none were made.
func (m *MockCompleter) LastRequest() *ai.CompletionRequest {
	if len(m.Requests) == 0 {
		return nil
	}
	return &m.Requests[len(m.Requests)-1]
}

// Reset clears recorded requests, the call count, and injected behavior.
func (m *MockCompleter) Reset() {
	m.callCount = 0
	m.Requests = nil
	m.CompleteFunc = nil
}
