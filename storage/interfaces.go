package storage

import (
	"context"

	"github.com/vyasa-labs/gitasage/core"
)

// ChunkIndex is the vector search collaborator: a store of pre-embedded
// corpus chunks answering nearest-neighbor queries.
// Implementations must be thread-safe and support concurrent access.
type ChunkIndex interface {
	// Query returns up to topK chunks most similar to the given vector,
	// ordered by cosine similarity (highest first). When includeMetadata is
	// false the returned chunks carry nil metadata.
	Query(ctx context.Context, vector []float32, topK int, includeMetadata bool) ([]core.RetrievedChunk, error)

	// Sections returns the sorted set of chapter numbers present in the
	// index metadata. Used by the guardrail to validate explicit chapter
	// references. An empty result means the index carries no section
	// structure.
	Sections(ctx context.Context) ([]int, error)

	// UpsertChunks inserts or overwrites chunks by ID.
	UpsertChunks(ctx context.Context, chunks ...*core.Chunk) error

	// Close closes the index and releases resources.
	Close() error
}

// TurnRepository provides durable storage for conversation turns. It is a
// drop-in backing for the in-memory session store behind the same shape of
// operations.
type TurnRepository interface {
	// AddTurn appends a turn to a session's history.
	AddTurn(ctx context.Context, sessionID string, turn *core.Turn) error

	// RecentTurns retrieves the last limit turns of a session in
	// chronological order (oldest first). Returns an empty slice for an
	// unknown session.
	RecentTurns(ctx context.Context, sessionID string, limit int) ([]*core.Turn, error)

	// Close closes the repository and releases resources.
	Close() error
}

// FeedbackRepository persists user feedback. Writes are fire-and-forget:
// nothing in the pipeline ever reads them back.
type FeedbackRepository interface {
	// AddFeedback stores one feedback record.
	AddFeedback(ctx context.Context, fb *core.Feedback) error

	// Close closes the repository and releases resources.
	Close() error
}
