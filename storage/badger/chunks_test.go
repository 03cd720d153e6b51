package badger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vyasa-labs/gitasage/core"
)

func TestChunkIndexQuery(t *testing.T) {
	index, _, _, backend, err := NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()
	defer index.Close()

	ctx := context.Background()

	chunks := []*core.Chunk{
		{
			ID:       "c1-1",
			Text:     "dharma is righteous duty",
			Vector:   []float32{1, 0, 0},
			Metadata: map[string]string{"chapter": "1"},
		},
		{
			ID:       "c2-1",
			Text:     "karma is action",
			Vector:   []float32{0, 1, 0},
			Metadata: map[string]string{"chapter": "2"},
		},
		{
			ID:       "c2-2",
			Text:     "the fruits of action",
			Vector:   []float32{0.7, 0.7, 0},
			Metadata: map[string]string{"chapter": "2"},
		},
	}
	require.NoError(t, index.UpsertChunks(ctx, chunks...))

	t.Run("orders by similarity", func(t *testing.T) {
		results, err := index.Query(ctx, []float32{1, 0, 0}, 3, true)
		require.NoError(t, err)
		require.Len(t, results, 3)

		assert.Equal(t, "c1-1", results[0].ID)
		assert.InDelta(t, 1.0, results[0].Score, 0.001)
		assert.Equal(t, "c2-2", results[1].ID)
		assert.Equal(t, "c2-1", results[2].ID)
		assert.InDelta(t, 0.0, results[2].Score, 0.001)
	})

	t.Run("respects topK", func(t *testing.T) {
		results, err := index.Query(ctx, []float32{1, 0, 0}, 2, true)
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})

	t.Run("metadata excluded on request", func(t *testing.T) {
		results, err := index.Query(ctx, []float32{1, 0, 0}, 1, false)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Nil(t, results[0].Metadata)
	})

	t.Run("metadata included on request", func(t *testing.T) {
		results, err := index.Query(ctx, []float32{1, 0, 0}, 1, true)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "1", results[0].Metadata["chapter"])
	})

	t.Run("rejects empty vector", func(t *testing.T) {
		_, err := index.Query(ctx, nil, 3, true)
		assert.Error(t, err)
	})

	t.Run("rejects non-positive topK", func(t *testing.T) {
		_, err := index.Query(ctx, []float32{1, 0, 0}, 0, true)
		assert.Error(t, err)
	})
}

func TestChunkIndexUpsertOverwrites(t *testing.T) {
	index, _, _, backend, err := NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()
	defer index.Close()

	ctx := context.Background()

	require.NoError(t, index.UpsertChunks(ctx, &core.Chunk{
		ID:     "c1",
		Text:   "old text",
		Vector: []float32{1, 0},
	}))
	require.NoError(t, index.UpsertChunks(ctx, &core.Chunk{
		ID:     "c1",
		Text:   "new text",
		Vector: []float32{1, 0},
	}))

	results, err := index.Query(ctx, []float32{1, 0}, 10, false)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "new text", results[0].Text)
}

func TestChunkIndexSections(t *testing.T) {
	index, _, _, backend, err := NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()
	defer index.Close()

	ctx := context.Background()

	t.Run("empty index has no sections", func(t *testing.T) {
		sections, err := index.Sections(ctx)
		require.NoError(t, err)
		assert.Empty(t, sections)
	})

	t.Run("sections ascend and dedupe", func(t *testing.T) {
		require.NoError(t, index.UpsertChunks(ctx,
			&core.Chunk{ID: "a", Text: "t", Metadata: map[string]string{"chapter": "3"}},
			&core.Chunk{ID: "b", Text: "t", Metadata: map[string]string{"chapter": "1"}},
			&core.Chunk{ID: "c", Text: "t", Metadata: map[string]string{"chapter": "3"}},
			&core.Chunk{ID: "d", Text: "t", Metadata: map[string]string{"chapter": "2"}},
			&core.Chunk{ID: "e", Text: "no chapter tag"},
		))

		sections, err := index.Sections(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3}, sections)
	})
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float32
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1.0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0.0},
		{"opposite clamps to zero", []float32{1, 0}, []float32{-1, 0}, 0.0},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0.0},
		{"scale invariant", []float32{2, 0}, []float32{5, 0}, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, cosineSimilarity(tt.a, tt.b), 0.001)
		})
	}
}
