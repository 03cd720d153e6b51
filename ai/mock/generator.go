package mock

import (
	"context"

	"github.com/vyasa-labs/gitasage/ai"
)

// MockGenerator is a test double for ai.Generator.
// It allows custom behavior injection via function fields.
type MockGenerator struct {
	// GenerateFunc is called by Generate if set.
	// If nil, uses default canned behavior.
	GenerateFunc func(ctx context.Context, req ai.GenerateRequest) (string, error)

	// GenerateStreamFunc is called by GenerateStream if set.
	// If nil, the default splits the Generate result into fragments.
	GenerateStreamFunc func(ctx context.Context, req ai.GenerateRequest, fn ai.StreamFunc) (string, error)

	callCount int
}

// NewMockGenerator creates a mock generator with default canned behavior.
// Note: Returns concrete type to allow test assertions via CallCount().
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Generate returns a deterministic canned answer echoing the query.
func (m *MockGenerator) Generate(ctx context.Context, req ai.GenerateRequest) (string, error) {
	m.callCount++

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}

	return "mock answer for: " + req.Query, nil
}

// GenerateStream streams the canned answer as two fragments.
func (m *MockGenerator) GenerateStream(ctx context.Context, req ai.GenerateRequest, fn ai.StreamFunc) (string, error) {
	m.callCount++

	if m.GenerateStreamFunc != nil {
		return m.GenerateStreamFunc(ctx, req, fn)
	}

	fragments := []string{"mock answer for: ", req.Query}
	var full string
	for _, fragment := range fragments {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		full += fragment
		if err := fn(ctx, fragment); err != nil {
			return "", err
		}
	}
	return full, nil
}

// CallCount returns the number of times any method was called.
func (m *MockGenerator) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockGenerator) Reset() {
	m.callCount = 0
	m.GenerateFunc = nil
	m.GenerateStreamFunc = nil
}
