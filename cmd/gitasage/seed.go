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

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/urfave/cli/v2"
	"github.com/vyasa-labs/gitasage/ai"
	"github.com/vyasa-labs/gitasage/ai/openai"
	"github.com/vyasa-labs/gitasage/core"
	"github.com/vyasa-labs/gitasage/storage/badger"
)

const seedWorkers = 4

// corpusRecord is one line of the JSONL corpus file. Vector is optional;
// records without one are embedded during seeding.
type corpusRecord struct {
	ID       string            `json:"id"`
	Text     string            `json:"text"`
	Chapter  int               `json:"chapter"`
	Vector   []float32         `json:"vector,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

func (r *corpusRecord) toChunk() *core.Chunk {
	metadata := make(map[string]string, len(r.Metadata)+1)
	for k, v := range r.Metadata {
		metadata[k] = v
	}
	if r.Chapter > 0 {
		metadata["chapter"] = strconv.Itoa(r.Chapter)
	}
	if len(metadata) == 0 {
		metadata = nil
	}
	return &core.Chunk{
		ID:       r.ID,
		Text:     r.Text,
		Vector:   r.Vector,
		Metadata: metadata,
	}
}

func seedCommand(c *cli.Context) error {
	ctx := context.Background()

	chunks, err := loadCorpus(c.String("corpus"))
	if err != nil {
		return fmt.Errorf("failed to load corpus: %w", err)
	}
	if len(chunks) == 0 {
		return fmt.Errorf("corpus file contains no records")
	}

	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	index, err := badger.NewChunkIndex(backend)
	if err != nil {
		return err
	}
	defer index.Close()

	var missing []*core.Chunk
	for _, chunk := range chunks {
		if len(chunk.Vector) == 0 {
			missing = append(missing, chunk)
		}
	}

	fmt.Fprintf(os.Stderr, "Corpus: %s (%d chunks, %d need embedding)\n",
		c.String("corpus"), len(chunks), len(missing))

	if len(missing) > 0 {
		config := ai.NewConfig(
			ai.WithHost(c.String("host")),
			ai.WithToken(c.String("token")),
			ai.WithEmbeddingModel(c.String("embedding-model")),
		)
		embedder, err := openai.NewEmbedder(config)
		if err != nil {
			return fmt.Errorf("failed to create embedder: %w", err)
		}

		if err := embedMissing(ctx, embedder, missing, c.Int("batch-size")); err != nil {
			return fmt.Errorf("embedding failed: %w", err)
		}
	}

	if err := index.UpsertChunks(ctx, chunks...); err != nil {
		return fmt.Errorf("failed to store chunks: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Seeded %d chunks\n", len(chunks))
	return nil
}

func loadCorpus(path string) ([]*core.Chunk, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var chunks []*core.Chunk
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var record corpusRecord
		if err := json.Unmarshal(raw, &record); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		chunk := record.toChunk()
		if err := core.ValidateChunk(chunk); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		chunks = append(chunks, chunk)
	}
	return chunks, scanner.Err()
}

// embedMissing fills in vectors for chunks that arrived without one, running
// embedding batches concurrently on a small worker pool.
func embedMissing(ctx context.Context, embedder ai.Embedder, chunks []*core.Chunk, batchSize int) error {
	if batchSize <= 0 {
		batchSize = 64
	}

	pool, err := ants.NewPool(seedWorkers)
	if err != nil {
		return err
	}
	defer pool.Release()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		batchErr error
	)
	for start := 0; start < len(chunks); start += batchSize {
		end := start + batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()

			texts := make([]string, len(batch))
			for i, chunk := range batch {
				texts[i] = chunk.Text
			}
			vectors, err := embedder.EmbedTexts(ctx, texts)
			if err != nil {
				mu.Lock()
				if batchErr == nil {
					batchErr = err
				}
				mu.Unlock()
				return
			}
			for i, vector := range vectors {
				batch[i].Vector = vector
			}
		})
		if submitErr != nil {
			wg.Done()
			return submitErr
		}
	}
	wg.Wait()
	return batchErr
}
