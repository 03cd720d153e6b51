// Copyright 2025 Vyasa Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package badger

import (
	"context"
	"math"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/vyasa-labs/gitasage/core"
	"github.com/vyasa-labs/gitasage/storage"
)

// ChunkIndex implements storage.ChunkIndex for BadgerDB using a full cosine
// scan. Corpora in the low tens of thousands of chunks scan in milliseconds,
// which is well within budget for a single-node deployment.
type ChunkIndex struct {
	backend *Backend
}

var _ storage.ChunkIndex = (*ChunkIndex)(nil)

// NewChunkIndex creates a ChunkIndex on the given backend.
func NewChunkIndex(backend *Backend) (storage.ChunkIndex, error) {
	if backend == nil {
		return nil, storage.ErrStorageClosed
	}
	return &ChunkIndex{backend: backend}, nil
}

// Close releases the index. The backend is shared and closed by its owner.
func (ci *ChunkIndex) Close() error {
	return nil
}

type scoredChunk struct {
	chunk *core.Chunk
	score float32
}

// Query scans all stored chunks, computes cosine similarity against the query
// vector, and returns the topK best matches in descending score order.
func (ci *ChunkIndex) Query(ctx context.Context, vector []float32, topK int, includeMetadata bool) ([]core.RetrievedChunk, error) {
	if len(vector) == 0 || topK <= 0 {
		return nil, storage.ErrInvalidQuery
	}
	if ci.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var scored []scoredChunk
	err := ci.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(chunkRecordPrefix + ":")
		it := tx.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var chunk *core.Chunk
			err := it.Item().Value(func(val []byte) error {
				var err error
				chunk, err = storage.UnmarshalChunk(val)
				return err
			})
			if err != nil {
				return err
			}
			if len(chunk.Vector) != len(vector) {
				continue
			}
			scored = append(scored, scoredChunk{
				chunk: chunk,
				score: cosineSimilarity(vector, chunk.Vector),
			})
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(scored, func(a, b scoredChunk) int {
		switch {
		case a.score > b.score:
			return -1
		case a.score < b.score:
			return 1
		default:
			return 0
		}
	})
	if len(scored) > topK {
		scored = scored[:topK]
	}

	results := make([]core.RetrievedChunk, 0, len(scored))
	for _, sc := range scored {
		rc := core.RetrievedChunk{
			ID:    sc.chunk.ID,
			Text:  sc.chunk.Text,
			Score: sc.score,
		}
		if includeMetadata {
			rc.Metadata = sc.chunk.Metadata
		}
		results = append(results, rc)
	}
	return results, nil
}

// Sections returns the ascending set of chapter numbers seen at upsert time.
func (ci *ChunkIndex) Sections(ctx context.Context) ([]int, error) {
	if ci.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var sections []int
	err := ci.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(sectionPrefix + ":")
		opts.PrefetchValues = false
		it := tx.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			sections = append(sections, sectionFromKey(it.Item().Key()))
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return sections, nil
}

// UpsertChunks inserts or overwrites chunks by ID and maintains the section
// marker keys used by Sections.
func (ci *ChunkIndex) UpsertChunks(ctx context.Context, chunks ...*core.Chunk) error {
	if ci.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	return ci.backend.WithTx(func(tx *badger.Txn) error {
		for _, chunk := range chunks {
			if err := core.ValidateChunk(chunk); err != nil {
				return err
			}
			if err := tx.Set(makeChunkKey(chunk.ID), storage.MarshalChunk(chunk)); err != nil {
				return err
			}
			if chapter := chunk.Chapter(); chapter > 0 {
				if err := tx.Set(makeSectionKey(chapter), nil); err != nil {
					return err
				}
			}
		}
		return tx.Commit()
	}, true)
}

// cosineSimilarity computes cosine similarity between two vectors of equal
// length, clamped to [0, 1]. Negative cosines carry no retrieval signal here.
func cosineSimilarity(a, b []float32) float32 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return float32(sim)
}
