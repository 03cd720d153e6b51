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

package retrieval

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/vyasa-labs/gitasage/ai"
	"github.com/vyasa-labs/gitasage/core"
	"github.com/vyasa-labs/gitasage/storage"
)

// Default thresholds. Each is a per-coordinator setting so deployments can
// tune them against their corpus and embedding model.
const (
	// GateThreshold is the minimum best similarity for a simple question to
	// proceed to generation.
	GateThreshold = 0.5

	// ComprehensiveGateThreshold relaxes the gate for summary and analysis
	// queries, whose evidence is spread across many moderate matches.
	ComprehensiveGateThreshold = 0.3

	// RetainThreshold filters individual candidates after the gate passes.
	RetainThreshold = 0.4

	defaultProbeTopK = 10
	defaultPoolSize  = 8
)

// ErrNoProbes indicates Retrieve was called without any probe text.
var ErrNoProbes = errors.New("retrieval requires at least one probe")

// Result is the outcome of one coordinated retrieval.
type Result struct {
	// Candidates is the merged, deduplicated probe output sorted by
	// similarity, highest first.
	Candidates []core.RetrievedChunk

	// TopScore is the best similarity across all candidates, 0 when empty.
	TopScore float32

	// GatePassed reports whether TopScore cleared the intent's threshold.
	GatePassed bool

	// Retained is the subset of Candidates above the retain threshold, in
	// the same order. Empty whenever GatePassed is false.
	Retained []core.RetrievedChunk
}

// Coordinator embeds probe texts, fans index queries out across a worker
// pool, and merges the results into one gated candidate list.
type Coordinator struct {
	embedder ai.Embedder
	index    storage.ChunkIndex
	pool     *ants.Pool
	monitor  Monitor
	logger   *slog.Logger
	topK     int

	gateThreshold          float32
	comprehensiveThreshold float32
	retainThreshold        float32
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithMonitor attaches a telemetry sink.
func WithMonitor(monitor Monitor) CoordinatorOption {
	return func(c *Coordinator) {
		c.monitor = monitor
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) CoordinatorOption {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// WithProbeTopK overrides how many chunks each probe requests.
func WithProbeTopK(topK int) CoordinatorOption {
	return func(c *Coordinator) {
		c.topK = topK
	}
}

// WithGateThresholds overrides the minimum best similarity for simple and
// comprehensive queries.
func WithGateThresholds(simple, comprehensive float32) CoordinatorOption {
	return func(c *Coordinator) {
		c.gateThreshold = simple
		c.comprehensiveThreshold = comprehensive
	}
}

// WithRetainThreshold overrides the per-candidate cutoff applied after the
// gate passes.
func WithRetainThreshold(threshold float32) CoordinatorOption {
	return func(c *Coordinator) {
		c.retainThreshold = threshold
	}
}

// NewCoordinator creates a Coordinator over the given embedder and index.
func NewCoordinator(embedder ai.Embedder, index storage.ChunkIndex, opts ...CoordinatorOption) (*Coordinator, error) {
	if embedder == nil {
		return nil, errors.New("embedder is required")
	}
	if index == nil {
		return nil, errors.New("chunk index is required")
	}

	pool, err := ants.NewPool(defaultPoolSize)
	if err != nil {
		return nil, err
	}

	c := &Coordinator{
		embedder: embedder,
		index:    index,
		pool:     pool,
		monitor:  nopMonitor{},
		logger:   slog.Default(),
		topK:     defaultProbeTopK,

		gateThreshold:          GateThreshold,
		comprehensiveThreshold: ComprehensiveGateThreshold,
		retainThreshold:        RetainThreshold,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Close releases the worker pool.
func (c *Coordinator) Close() error {
	c.pool.Release()
	return nil
}

// Retrieve embeds every probe in one batch, queries the index concurrently,
// and merges duplicates keeping each chunk's best score. The gate threshold
// depends on whether the query is comprehensive.
func (c *Coordinator) Retrieve(ctx context.Context, probes []string, comprehensive bool) (*Result, error) {
	if len(probes) == 0 {
		return nil, ErrNoProbes
	}
	started := time.Now()

	vectors, err := c.embedder.EmbedTexts(ctx, probes)
	if err != nil {
		return nil, err
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		batches  [][]core.RetrievedChunk
		probeErr error
	)
	for _, vector := range vectors {
		vector := vector
		wg.Add(1)
		submitErr := c.pool.Submit(func() {
			defer wg.Done()
			chunks, err := c.index.Query(ctx, vector, c.topK, true)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if probeErr == nil {
					probeErr = err
				}
				return
			}
			batches = append(batches, chunks)
		})
		if submitErr != nil {
			wg.Done()
			return nil, submitErr
		}
	}
	wg.Wait()
	if probeErr != nil {
		return nil, probeErr
	}

	candidates := mergeCandidates(batches)
	result := &Result{
		Candidates: candidates,
	}
	if len(candidates) > 0 {
		result.TopScore = candidates[0].Score
	}

	threshold := c.gateThreshold
	if comprehensive {
		threshold = c.comprehensiveThreshold
	}
	result.GatePassed = result.TopScore >= threshold

	if result.GatePassed {
		for _, chunk := range candidates {
			if chunk.Score > c.retainThreshold {
				result.Retained = append(result.Retained, chunk)
			}
		}
		// A relaxed gate can pass on evidence below the retain bar. The best
		// candidate is still the answer's grounding, so keep it.
		if len(result.Retained) == 0 {
			result.Retained = candidates[:1]
		}
	}

	c.monitor.RecordRetrieval(len(probes), len(candidates), len(result.Retained), result.TopScore, time.Since(started))
	return result, nil
}

// mergeCandidates deduplicates by chunk ID keeping the best score for each,
// then sorts by score descending. Ties keep first-seen order.
func mergeCandidates(batches [][]core.RetrievedChunk) []core.RetrievedChunk {
	best := make(map[string]core.RetrievedChunk)
	var order []string
	for _, batch := range batches {
		for _, chunk := range batch {
			seen, ok := best[chunk.ID]
			if !ok {
				best[chunk.ID] = chunk
				order = append(order, chunk.ID)
				continue
			}
			if chunk.Score > seen.Score {
				best[chunk.ID] = chunk
			}
		}
	}

	merged := make([]core.RetrievedChunk, 0, len(order))
	for _, id := range order {
		merged = append(merged, best[id])
	}
	slices.SortStableFunc(merged, func(a, b core.RetrievedChunk) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})
	return merged
}
