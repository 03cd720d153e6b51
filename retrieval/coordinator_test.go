package retrieval

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	aimock "github.com/vyasa-labs/gitasage/ai/mock"
	"github.com/vyasa-labs/gitasage/core"
	"github.com/vyasa-labs/gitasage/storage"
)

// fakeIndex returns a canned batch per query call, in call order. Safe for
// the coordinator's concurrent probes.
type fakeIndex struct {
	mu      sync.Mutex
	batches [][]core.RetrievedChunk
	calls   int
	err     error
}

var _ storage.ChunkIndex = (*fakeIndex)(nil)

func (f *fakeIndex) Query(ctx context.Context, vector []float32, topK int, includeMetadata bool) ([]core.RetrievedChunk, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if f.calls >= len(f.batches) {
		return nil, nil
	}
	batch := f.batches[f.calls]
	f.calls++
	return batch, nil
}

func (f *fakeIndex) Sections(ctx context.Context) ([]int, error)             { return nil, nil }
func (f *fakeIndex) UpsertChunks(ctx context.Context, _ ...*core.Chunk) error { return nil }
func (f *fakeIndex) Close() error                                            { return nil }

func chunk(id string, score float32) core.RetrievedChunk {
	return core.RetrievedChunk{ID: id, Text: "text for " + id, Score: score}
}

func newTestCoordinator(t *testing.T, index storage.ChunkIndex) *Coordinator {
	t.Helper()
	c, err := NewCoordinator(aimock.NewMockEmbedder(), index)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestRetrieveMergesDuplicates(t *testing.T) {
	index := &fakeIndex{batches: [][]core.RetrievedChunk{
		{chunk("a", 0.42), chunk("b", 0.55)},
		{chunk("a", 0.81), chunk("c", 0.60)},
	}}
	c := newTestCoordinator(t, index)

	result, err := c.Retrieve(context.Background(), []string{"p1", "p2"}, false)
	require.NoError(t, err)

	require.Len(t, result.Candidates, 3)
	assert.Equal(t, "a", result.Candidates[0].ID)
	assert.InDelta(t, 0.81, result.Candidates[0].Score, 0.001)
	assert.Equal(t, "c", result.Candidates[1].ID)
	assert.Equal(t, "b", result.Candidates[2].ID)
}

func TestRetrieveGateBoundary(t *testing.T) {
	tests := []struct {
		name          string
		topScore      float32
		comprehensive bool
		wantPass      bool
	}{
		{"just below simple gate", 0.49, false, false},
		{"exactly at simple gate", 0.50, false, true},
		{"above simple gate", 0.51, false, true},
		{"below comprehensive gate", 0.29, true, false},
		{"exactly at comprehensive gate", 0.30, true, true},
		{"simple gate rejects what comprehensive accepts", 0.35, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			index := &fakeIndex{batches: [][]core.RetrievedChunk{{chunk("a", tt.topScore)}}}
			c := newTestCoordinator(t, index)

			result, err := c.Retrieve(context.Background(), []string{"probe"}, tt.comprehensive)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPass, result.GatePassed)
			if !tt.wantPass {
				assert.Empty(t, result.Retained)
			}
		})
	}
}

func TestRetrieveRetainFilter(t *testing.T) {
	t.Run("drops candidates at or below the retain bar", func(t *testing.T) {
		index := &fakeIndex{batches: [][]core.RetrievedChunk{
			{chunk("a", 0.80), chunk("b", 0.41), chunk("c", 0.40), chunk("d", 0.10)},
		}}
		c := newTestCoordinator(t, index)

		result, err := c.Retrieve(context.Background(), []string{"probe"}, false)
		require.NoError(t, err)
		require.True(t, result.GatePassed)
		require.Len(t, result.Retained, 2)
		assert.Equal(t, "a", result.Retained[0].ID)
		assert.Equal(t, "b", result.Retained[1].ID)
	})

	t.Run("keeps best candidate when the relaxed gate passes alone", func(t *testing.T) {
		index := &fakeIndex{batches: [][]core.RetrievedChunk{
			{chunk("a", 0.35), chunk("b", 0.32)},
		}}
		c := newTestCoordinator(t, index)

		result, err := c.Retrieve(context.Background(), []string{"probe"}, true)
		require.NoError(t, err)
		require.True(t, result.GatePassed)
		require.Len(t, result.Retained, 1)
		assert.Equal(t, "a", result.Retained[0].ID)
	})
}

func TestRetrieveThresholdOverrides(t *testing.T) {
	t.Run("stricter simple gate rejects the default pass", func(t *testing.T) {
		index := &fakeIndex{batches: [][]core.RetrievedChunk{{chunk("a", 0.80)}}}
		c, err := NewCoordinator(aimock.NewMockEmbedder(), index, WithGateThresholds(0.9, 0.85))
		require.NoError(t, err)
		defer c.Close()

		result, err := c.Retrieve(context.Background(), []string{"probe"}, false)
		require.NoError(t, err)
		assert.False(t, result.GatePassed)
	})

	t.Run("looser comprehensive gate accepts the default reject", func(t *testing.T) {
		index := &fakeIndex{batches: [][]core.RetrievedChunk{{chunk("a", 0.25)}}}
		c, err := NewCoordinator(aimock.NewMockEmbedder(), index, WithGateThresholds(0.5, 0.2))
		require.NoError(t, err)
		defer c.Close()

		result, err := c.Retrieve(context.Background(), []string{"probe"}, true)
		require.NoError(t, err)
		assert.True(t, result.GatePassed)
	})

	t.Run("retain threshold narrows the kept set", func(t *testing.T) {
		index := &fakeIndex{batches: [][]core.RetrievedChunk{
			{chunk("a", 0.80), chunk("b", 0.55), chunk("c", 0.41)},
		}}
		c, err := NewCoordinator(aimock.NewMockEmbedder(), index, WithRetainThreshold(0.6))
		require.NoError(t, err)
		defer c.Close()

		result, err := c.Retrieve(context.Background(), []string{"probe"}, false)
		require.NoError(t, err)
		require.True(t, result.GatePassed)
		require.Len(t, result.Retained, 1)
		assert.Equal(t, "a", result.Retained[0].ID)
	})
}

func TestRetrieveEmptyIndex(t *testing.T) {
	c := newTestCoordinator(t, &fakeIndex{})

	result, err := c.Retrieve(context.Background(), []string{"probe"}, false)
	require.NoError(t, err)
	assert.Empty(t, result.Candidates)
	assert.False(t, result.GatePassed)
	assert.Zero(t, result.TopScore)
}

func TestRetrieveErrors(t *testing.T) {
	t.Run("no probes", func(t *testing.T) {
		c := newTestCoordinator(t, &fakeIndex{})
		_, err := c.Retrieve(context.Background(), nil, false)
		assert.ErrorIs(t, err, ErrNoProbes)
	})

	t.Run("embedder failure propagates", func(t *testing.T) {
		embedder := aimock.NewMockEmbedder()
		embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
			return nil, errors.New("embedding down")
		}
		c, err := NewCoordinator(embedder, &fakeIndex{})
		require.NoError(t, err)
		defer c.Close()

		_, err = c.Retrieve(context.Background(), []string{"probe"}, false)
		assert.Error(t, err)
	})

	t.Run("index failure propagates", func(t *testing.T) {
		c := newTestCoordinator(t, &fakeIndex{err: errors.New("index down")})
		_, err := c.Retrieve(context.Background(), []string{"probe"}, false)
		assert.Error(t, err)
	})
}
