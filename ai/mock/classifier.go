package mock

import (
	"context"
	"errors"

	"github.com/vyasa-labs/gitasage/ai"
	"github.com/vyasa-labs/gitasage/core"
)

// ErrClassifierUnavailable is the default error returned by FailingClassifier.
var ErrClassifierUnavailable = errors.New("mock classifier unavailable")

// MockClassifier is a test double for ai.LanguageClassifier.
// It allows custom behavior injection via function fields.
type MockClassifier struct {
	// ClassifyFunc is called by Classify if set.
	// If nil, uses default behavior: english, not a greeting.
	ClassifyFunc func(ctx context.Context, text string) (ai.Classification, error)

	callCount int
}

// NewMockClassifier creates a mock classifier with default behavior.
// Note: Returns concrete type to allow test assertions via CallCount().
func NewMockClassifier() *MockClassifier {
	return &MockClassifier{}
}

// NewFailingClassifier creates a mock classifier that always errors,
// forcing callers onto their heuristic fallback path.
func NewFailingClassifier() *MockClassifier {
	return &MockClassifier{
		ClassifyFunc: func(ctx context.Context, text string) (ai.Classification, error) {
			return ai.Classification{}, ErrClassifierUnavailable
		},
	}
}

// Classify returns a default english non-greeting classification.
func (m *MockClassifier) Classify(ctx context.Context, text string) (ai.Classification, error) {
	m.callCount++

	if m.ClassifyFunc != nil {
		return m.ClassifyFunc(ctx, text)
	}

	return ai.Classification{IsGreeting: false, Language: core.LanguageEnglish}, nil
}

// CallCount returns the number of times Classify was called.
func (m *MockClassifier) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockClassifier) Reset() {
	m.callCount = 0
	m.ClassifyFunc = nil
}
