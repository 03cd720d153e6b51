package guard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vyasa-labs/gitasage/core"
	"github.com/vyasa-labs/gitasage/storage"
)

// stubIndex serves canned sections and counts discovery calls.
type stubIndex struct {
	mu       sync.Mutex
	sections []int
	err      error
	calls    int
}

var _ storage.ChunkIndex = (*stubIndex)(nil)

func (s *stubIndex) Sections(ctx context.Context) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.sections, s.err
}

func (s *stubIndex) Query(ctx context.Context, vector []float32, topK int, includeMetadata bool) ([]core.RetrievedChunk, error) {
	return nil, nil
}
func (s *stubIndex) UpsertChunks(ctx context.Context, _ ...*core.Chunk) error { return nil }
func (s *stubIndex) Close() error                                             { return nil }

func (s *stubIndex) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestGateEmptyQuery(t *testing.T) {
	gate, err := NewGate(&stubIndex{})
	require.NoError(t, err)

	decision := gate.Check(context.Background(), "", 0, core.LanguageEnglish)
	assert.False(t, decision.Allowed)
	assert.Equal(t, ReasonEmptyQuery, decision.Reason)
	assert.Equal(t, "Please ask a question.", decision.Message)
}

func TestGateChapterValidation(t *testing.T) {
	index := &stubIndex{sections: []int{1, 2, 3}}
	gate, err := NewGate(index)
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("available chapter passes", func(t *testing.T) {
		decision := gate.Check(ctx, "summarize chapter 2", 2, core.LanguageEnglish)
		assert.True(t, decision.Allowed)
	})

	t.Run("missing chapter blocks with the available list", func(t *testing.T) {
		decision := gate.Check(ctx, "summarize chapter 9", 9, core.LanguageEnglish)
		assert.False(t, decision.Allowed)
		assert.Equal(t, ReasonUnavailableSection, decision.Reason)
		assert.Equal(t, []int{1, 2, 3}, decision.Sections)
		assert.Equal(t, "Chapter 9 is not available yet. Available chapters: 1, 2, 3.", decision.Message)
	})

	t.Run("rejection speaks the user's language", func(t *testing.T) {
		decision := gate.Check(ctx, "summarize chapter 9", 9, core.LanguageHindi)
		assert.False(t, decision.Allowed)
		assert.Contains(t, decision.Message, "अध्याय 9")
	})

	t.Run("no chapter reference skips discovery entirely", func(t *testing.T) {
		fresh := &stubIndex{sections: []int{1}}
		g, err := NewGate(fresh)
		require.NoError(t, err)

		decision := g.Check(ctx, "what is dharma", 0, core.LanguageEnglish)
		assert.True(t, decision.Allowed)
		assert.Equal(t, 0, fresh.callCount())
	})
}

func TestGateFailsOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("discovery error allows the query", func(t *testing.T) {
		gate, err := NewGate(&stubIndex{err: errors.New("storage down")})
		require.NoError(t, err)

		decision := gate.Check(ctx, "summarize chapter 9", 9, core.LanguageEnglish)
		assert.True(t, decision.Allowed)
	})

	t.Run("structureless corpus allows any chapter", func(t *testing.T) {
		gate, err := NewGate(&stubIndex{sections: []int{}})
		require.NoError(t, err)

		decision := gate.Check(ctx, "summarize chapter 9", 9, core.LanguageEnglish)
		assert.True(t, decision.Allowed)
	})
}

func TestGateSectionsCache(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	index := &stubIndex{sections: []int{1, 2}}
	gate, err := NewGate(index, WithClock(func() time.Time { return now }))
	require.NoError(t, err)
	ctx := context.Background()

	gate.Check(ctx, "chapter 1 summary", 1, core.LanguageEnglish)
	gate.Check(ctx, "chapter 2 summary", 2, core.LanguageEnglish)
	assert.Equal(t, 1, index.callCount())

	now = now.Add(sectionsCacheTTL + time.Second)
	gate.Check(ctx, "chapter 1 summary", 1, core.LanguageEnglish)
	assert.Equal(t, 2, index.callCount())
}
