package openai

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"github.com/vyasa-labs/gitasage/core"
)

// stubModel plays back a canned chat completion.
type stubModel struct {
	response string
	err      error
}

var _ llms.Model = (*stubModel)(nil)

func (s *stubModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: s.response}},
	}, nil
}

func (s *stubModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return "", errors.New("not implemented")
}

func newStubClassifier(model llms.Model) *Classifier {
	return &Classifier{
		client:  model,
		timeout: boundedBy(time.Second),
		logger:  slog.Default(),
	}
}

func TestClassify(t *testing.T) {
	t.Run("parses a well-formed response", func(t *testing.T) {
		c := newStubClassifier(&stubModel{response: `{"is_greeting": true, "language": "telugu"}`})

		cls, err := c.Classify(context.Background(), "నమస్కారం")
		require.NoError(t, err)
		assert.True(t, cls.IsGreeting)
		assert.Equal(t, core.LanguageTelugu, cls.Language)
	})

	t.Run("strips code fences around the JSON", func(t *testing.T) {
		c := newStubClassifier(&stubModel{response: "```json\n{\"is_greeting\": false, \"language\": \"hindi\"}\n```"})

		cls, err := c.Classify(context.Background(), "धर्म क्या है")
		require.NoError(t, err)
		assert.Equal(t, core.LanguageHindi, cls.Language)
	})

	t.Run("rejects a language outside the allow-list", func(t *testing.T) {
		c := newStubClassifier(&stubModel{response: `{"is_greeting": false, "language": "french"}`})

		_, err := c.Classify(context.Background(), "bonjour")
		assert.ErrorIs(t, err, core.ErrUnsupportedLanguage)
	})

	t.Run("flags unparseable output", func(t *testing.T) {
		c := newStubClassifier(&stubModel{response: "certainly! here is the classification"})

		_, err := c.Classify(context.Background(), "hello")
		assert.ErrorIs(t, err, core.ErrMalformedOutput)
	})

	t.Run("wraps transport failures", func(t *testing.T) {
		c := newStubClassifier(&stubModel{err: errors.New("connection refused")})

		_, err := c.Classify(context.Background(), "hello")
		assert.ErrorIs(t, err, core.ErrUpstreamFailure)
	})
}
