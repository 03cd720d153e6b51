package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vyasa-labs/gitasage/core"
)

func reranked(id, text string, score float32, chapter string) core.RerankedChunk {
	rc := core.RerankedChunk{
		RetrievedChunk: core.RetrievedChunk{ID: id, Text: text, Score: score},
		RerankScore:    score,
	}
	if chapter != "" {
		rc.Metadata = map[string]string{"chapter": chapter}
	}
	return rc
}

func TestAssembleContext(t *testing.T) {
	chunks := []core.RerankedChunk{
		reranked("a", "Dharma is duty.", 0.812, "2"),
		reranked("b", "Karma is action.", 0.704, ""),
		reranked("c", "Bhakti is devotion.", 0.651, "12"),
	}

	t.Run("numbers passages and tags chapters", func(t *testing.T) {
		got := AssembleContext(chunks, 3)
		assert.Contains(t, got, "Passage 1 (Chapter 2, Relevance: 0.812):\nDharma is duty.")
		assert.Contains(t, got, "Passage 2 (Relevance: 0.704):\nKarma is action.")
		assert.Contains(t, got, "Passage 3 (Chapter 12, Relevance: 0.651):\nBhakti is devotion.")
	})

	t.Run("topN truncates", func(t *testing.T) {
		got := AssembleContext(chunks, 2)
		assert.Contains(t, got, "Passage 2")
		assert.NotContains(t, got, "Passage 3")
	})

	t.Run("topN beyond length renders everything", func(t *testing.T) {
		got := AssembleContext(chunks, 10)
		assert.Equal(t, 3, strings.Count(got, "Passage "))
	})

	t.Run("empty input renders empty", func(t *testing.T) {
		assert.Equal(t, "", AssembleContext(nil, 5))
		assert.Equal(t, "", AssembleContext(chunks, 0))
	})
}

func TestSources(t *testing.T) {
	t.Run("caps at three", func(t *testing.T) {
		chunks := []core.RerankedChunk{
			reranked("a", "t1", 0.9, "1"),
			reranked("b", "t2", 0.8, ""),
			reranked("c", "t3", 0.7, "3"),
			reranked("d", "t4", 0.6, "4"),
		}

		sources := Sources(chunks)
		require.Len(t, sources, 3)
		assert.Equal(t, "a", sources[0].ID)
		assert.Equal(t, 1, sources[0].Chapter)
		assert.Equal(t, 0, sources[1].Chapter)
		assert.Equal(t, "c", sources[2].ID)
	})

	t.Run("fewer than cap passes through", func(t *testing.T) {
		sources := Sources([]core.RerankedChunk{reranked("a", "t", 0.9, "")})
		assert.Len(t, sources, 1)
	})

	t.Run("empty input yields empty", func(t *testing.T) {
		assert.Empty(t, Sources(nil))
	})
}

func TestSystemPrompt(t *testing.T) {
	t.Run("structured asks for the JSON envelope", func(t *testing.T) {
		got := SystemPrompt(core.LanguageEnglish, true)
		assert.Contains(t, got, `{"thought"`)
		assert.Contains(t, got, "Respond in English.")
	})

	t.Run("simple stays plain text", func(t *testing.T) {
		got := SystemPrompt(core.LanguageTelugu, false)
		assert.NotContains(t, got, "JSON")
		assert.Contains(t, got, "Respond in Telugu.")
	})
}
