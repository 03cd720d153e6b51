package ai

import (
	"context"

	"github.com/vyasa-labs/gitasage/core"
)

// Embedder generates vector embeddings from text for semantic similarity
// search. Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a
	// batch. The returned slice contains embeddings in the same order as the
	// input texts.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// StreamFunc receives one generated text fragment. Returning an error stops
// the stream and propagates cancellation to the generator.
type StreamFunc func(ctx context.Context, fragment string) error

// GenerateRequest carries everything the answer generator needs for one call.
type GenerateRequest struct {
	// SystemPrompt is the behavioral instruction block.
	SystemPrompt string

	// Context is the rendered evidence block of retrieved passages.
	Context string

	// Query is the user's question, verbatim.
	Query string

	// History is the structured prior conversation, oldest first. May be nil
	// for the first turn of a session.
	History []core.Message

	// MaxTokens bounds the response length. Zero means provider default.
	MaxTokens int
}

// Generator produces natural-language answers from retrieved context.
// Implementations must be thread-safe for concurrent use.
type Generator interface {
	// Generate produces a complete answer in one call.
	Generate(ctx context.Context, req GenerateRequest) (string, error)

	// GenerateStream produces the answer incrementally, invoking fn for each
	// fragment as it arrives. The accumulated full text is returned once the
	// stream finishes. If fn returns an error or ctx is cancelled the stream
	// stops and the error is returned; the partial text must be discarded by
	// the caller.
	GenerateStream(ctx context.Context, req GenerateRequest, fn StreamFunc) (string, error)
}

// Classification is the result of the remote language/greeting classifier.
type Classification struct {
	IsGreeting bool
	Language   core.Language
}

// LanguageClassifier classifies an utterance's language and greeting status.
// This is the primary detection stage; callers compose it with a local
// heuristic fallback and must tolerate errors from it.
type LanguageClassifier interface {
	// Classify returns the greeting flag and a language from the allow-list.
	// Returns an error on timeout, transport failure, or a malformed or
	// out-of-allow-list response.
	Classify(ctx context.Context, text string) (Classification, error)
}

// AIProvider aggregates the hosted AI services for convenient initialization
// and lifecycle management.
type AIProvider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// Generator returns the answer generation service.
	Generator() Generator

	// Classifier returns the language/greeting classification service.
	Classifier() LanguageClassifier

	// Close releases resources held by the provider and its services.
	Close() error
}
