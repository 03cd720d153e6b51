package engine

import (
	"context"
	"sync"

	"github.com/vyasa-labs/gitasage/ai"
	"github.com/vyasa-labs/gitasage/core"
)

// embedCacheCapacity bounds the embedding cache. Entries are dropped
// wholesale when the bound is hit; embeddings are cheap to recompute and an
// LRU would be more machinery than the hit pattern justifies.
const embedCacheCapacity = 256

// CachingEmbedder decorates an Embedder with a content-hash keyed cache so
// repeated probes of the same text skip the provider round trip.
type CachingEmbedder struct {
	inner ai.Embedder

	mu      sync.Mutex
	vectors map[core.ID][]float32
}

var _ ai.Embedder = (*CachingEmbedder)(nil)

// NewCachingEmbedder wraps an embedder with the cache.
func NewCachingEmbedder(inner ai.Embedder) *CachingEmbedder {
	return &CachingEmbedder{
		inner:   inner,
		vectors: make(map[core.ID][]float32),
	}
}

// EmbedText returns the cached vector for previously seen text.
func (c *CachingEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	key := core.IDFromContent(text)

	c.mu.Lock()
	vector, ok := c.vectors[key]
	c.mu.Unlock()
	if ok {
		return vector, nil
	}

	vector, err := c.inner.EmbedText(ctx, text)
	if err != nil {
		return nil, err
	}
	c.store(key, vector)
	return vector, nil
}

// EmbedTexts serves cached entries and batches only the misses upstream.
func (c *CachingEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	var missing []string
	var missingAt []int

	c.mu.Lock()
	for i, text := range texts {
		if vector, ok := c.vectors[core.IDFromContent(text)]; ok {
			vectors[i] = vector
			continue
		}
		missing = append(missing, text)
		missingAt = append(missingAt, i)
	}
	c.mu.Unlock()

	if len(missing) == 0 {
		return vectors, nil
	}

	fetched, err := c.inner.EmbedTexts(ctx, missing)
	if err != nil {
		return nil, err
	}
	for i, vector := range fetched {
		at := missingAt[i]
		vectors[at] = vector
		c.store(core.IDFromContent(texts[at]), vector)
	}
	return vectors, nil
}

func (c *CachingEmbedder) store(key core.ID, vector []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.vectors) >= embedCacheCapacity {
		c.vectors = make(map[core.ID][]float32)
	}
	c.vectors[key] = vector
}
