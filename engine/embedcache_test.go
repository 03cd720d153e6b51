package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	aimock "github.com/vyasa-labs/gitasage/ai/mock"
)

func TestCachingEmbedderSingle(t *testing.T) {
	inner := aimock.NewMockEmbedder()
	cached := NewCachingEmbedder(inner)
	ctx := context.Background()

	first, err := cached.EmbedText(ctx, "what is dharma")
	require.NoError(t, err)
	require.Equal(t, 1, inner.CallCount())

	second, err := cached.EmbedText(ctx, "what is dharma")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.CallCount())

	_, err = cached.EmbedText(ctx, "what is karma")
	require.NoError(t, err)
	assert.Equal(t, 2, inner.CallCount())
}

func TestCachingEmbedderBatch(t *testing.T) {
	inner := aimock.NewMockEmbedder()
	cached := NewCachingEmbedder(inner)
	ctx := context.Background()

	// Warm one of the two entries.
	warm, err := cached.EmbedText(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, 1, inner.CallCount())

	vectors, err := cached.EmbedTexts(ctx, []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.Equal(t, warm, vectors[0])
	assert.NotNil(t, vectors[1])
	assert.Equal(t, 2, inner.CallCount())

	// Fully warm batch needs no upstream call.
	_, err = cached.EmbedTexts(ctx, []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, 2, inner.CallCount())
}
