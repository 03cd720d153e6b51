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
	"slices"
	"strings"

	"github.com/vyasa-labs/gitasage/core"
)

// RerankMode selects the scoring formula.
type RerankMode int

const (
	// RerankFull blends similarity, keyword overlap, and a small passage
	// length bonus. Used on the normal answer path.
	RerankFull RerankMode = iota

	// RerankFast drops the length term for latency-sensitive callers.
	RerankFast
)

// Passage window sizes by intent.
const (
	TopNChitchat      = 3
	TopNQuestion      = 5
	TopNComprehensive = 8
)

// TopN returns how many passages the context window admits for an intent.
func TopN(intent core.Intent, comprehensive bool) int {
	if comprehensive {
		return TopNComprehensive
	}
	if intent == core.IntentChitchat {
		return TopNChitchat
	}
	return TopNQuestion
}

// Rerank rescores retained chunks against the normalized query and returns
// them ordered by rerank score, highest first. The sort is stable: chunks
// with equal rerank scores keep their similarity order. Pure computation,
// deterministic for identical input.
func Rerank(normalized string, chunks []core.RetrievedChunk, mode RerankMode) []core.RerankedChunk {
	queryWords := wordSet(normalized)

	reranked := make([]core.RerankedChunk, len(chunks))
	for i, chunk := range chunks {
		reranked[i] = core.RerankedChunk{
			RetrievedChunk: chunk,
			RerankScore:    rerankScore(chunk, queryWords, mode),
		}
	}

	slices.SortStableFunc(reranked, func(a, b core.RerankedChunk) int {
		switch {
		case a.RerankScore > b.RerankScore:
			return -1
		case a.RerankScore < b.RerankScore:
			return 1
		default:
			return 0
		}
	})
	return reranked
}

func rerankScore(chunk core.RetrievedChunk, queryWords map[string]bool, mode RerankMode) float32 {
	overlap := keywordOverlap(queryWords, chunk.Text)
	if mode == RerankFast {
		return 0.7*chunk.Score + 0.3*overlap
	}

	lengthBonus := float32(len(chunk.Text)) / 1000
	if lengthBonus > 0.2 {
		lengthBonus = 0.2
	}
	return 0.6*chunk.Score + 0.3*overlap + 0.1*lengthBonus
}

// keywordOverlap is the fraction of query words present in the chunk text.
func keywordOverlap(queryWords map[string]bool, text string) float32 {
	if len(queryWords) == 0 {
		return 0
	}
	chunkWords := wordSet(text)
	matched := 0
	for w := range queryWords {
		if chunkWords[w] {
			matched++
		}
	}
	return float32(matched) / float32(len(queryWords))
}

func wordSet(text string) map[string]bool {
	words := strings.Fields(strings.ToLower(text))
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[strings.Trim(w, ".,!?;:\"'()")] = true
	}
	delete(set, "")
	return set
}
