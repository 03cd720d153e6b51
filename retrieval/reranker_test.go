package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vyasa-labs/gitasage/core"
)

func TestRerankFull(t *testing.T) {
	chunks := []core.RetrievedChunk{
		{ID: "a", Text: "nothing relevant here at all", Score: 0.70},
		{ID: "b", Text: "dharma is the righteous duty of every person", Score: 0.65},
	}

	reranked := Rerank("what is dharma duty", chunks, RerankFull)
	require.Len(t, reranked, 2)

	// Chunk b overlaps on "dharma", "duty", and "is"; its lexical signal
	// outweighs chunk a's similarity edge.
	assert.Equal(t, "b", reranked[0].ID)
	assert.Equal(t, "a", reranked[1].ID)
	assert.Greater(t, reranked[0].RerankScore, reranked[1].RerankScore)
}

func TestRerankScoreFormula(t *testing.T) {
	t.Run("full blends similarity overlap and length", func(t *testing.T) {
		chunk := core.RetrievedChunk{ID: "a", Text: "dharma", Score: 0.5}
		got := Rerank("dharma", []core.RetrievedChunk{chunk}, RerankFull)
		// 0.6*0.5 + 0.3*1.0 + 0.1*(6/1000)
		assert.InDelta(t, 0.3+0.3+0.1*0.006, got[0].RerankScore, 0.0001)
	})

	t.Run("fast drops the length term", func(t *testing.T) {
		chunk := core.RetrievedChunk{ID: "a", Text: "dharma", Score: 0.5}
		got := Rerank("dharma", []core.RetrievedChunk{chunk}, RerankFast)
		// 0.7*0.5 + 0.3*1.0
		assert.InDelta(t, 0.65, got[0].RerankScore, 0.0001)
	})

	t.Run("length bonus is capped", func(t *testing.T) {
		long := make([]byte, 5000)
		for i := range long {
			long[i] = 'x'
		}
		chunk := core.RetrievedChunk{ID: "a", Text: string(long), Score: 0.5}
		got := Rerank("unrelated", []core.RetrievedChunk{chunk}, RerankFull)
		// 0.6*0.5 + 0.3*0 + 0.1*0.2
		assert.InDelta(t, 0.32, got[0].RerankScore, 0.0001)
	})
}

func TestRerankStableOnTies(t *testing.T) {
	// Identical text and score produce identical rerank scores, so the
	// incoming similarity order must be preserved.
	chunks := []core.RetrievedChunk{
		{ID: "first", Text: "same text", Score: 0.6},
		{ID: "second", Text: "same text", Score: 0.6},
		{ID: "third", Text: "same text", Score: 0.6},
	}

	reranked := Rerank("query", chunks, RerankFull)
	assert.Equal(t, "first", reranked[0].ID)
	assert.Equal(t, "second", reranked[1].ID)
	assert.Equal(t, "third", reranked[2].ID)
}

func TestRerankDeterministic(t *testing.T) {
	chunks := []core.RetrievedChunk{
		{ID: "a", Text: "karma is action", Score: 0.7},
		{ID: "b", Text: "dharma is duty", Score: 0.7},
	}

	first := Rerank("karma and dharma", chunks, RerankFull)
	second := Rerank("karma and dharma", chunks, RerankFull)
	assert.Equal(t, first, second)
}

func TestRerankEmptyInput(t *testing.T) {
	assert.Empty(t, Rerank("query", nil, RerankFull))
}

func TestTopN(t *testing.T) {
	assert.Equal(t, 8, TopN(core.IntentQuestion, true))
	assert.Equal(t, 8, TopN(core.IntentChitchat, true))
	assert.Equal(t, 5, TopN(core.IntentQuestion, false))
	assert.Equal(t, 3, TopN(core.IntentChitchat, false))
}
