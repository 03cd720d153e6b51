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

package prompt

import (
	"fmt"
	"strings"

	"github.com/vyasa-labs/gitasage/core"
)

// MaxSources caps how many passages an answer cites back to the user.
const MaxSources = 3

// AssembleContext renders up to topN reranked passages into the evidence
// block handed to the generator. Passages are numbered from 1 in rerank
// order; the chapter tag is omitted for chunks without one.
func AssembleContext(chunks []core.RerankedChunk, topN int) string {
	if topN > len(chunks) {
		topN = len(chunks)
	}
	if topN <= 0 {
		return ""
	}

	var sb strings.Builder
	for i := 0; i < topN; i++ {
		chunk := chunks[i]
		if i > 0 {
			sb.WriteString("\n\n")
		}
		if chapter := chunk.Chapter(); chapter > 0 {
			fmt.Fprintf(&sb, "Passage %d (Chapter %d, Relevance: %.3f):\n", i+1, chapter, chunk.Score)
		} else {
			fmt.Fprintf(&sb, "Passage %d (Relevance: %.3f):\n", i+1, chunk.Score)
		}
		sb.WriteString(chunk.Text)
	}
	return sb.String()
}

// Sources extracts the citation list shown alongside an answer, capped at
// MaxSources, in the same order as the context block.
func Sources(chunks []core.RerankedChunk) []core.Source {
	n := len(chunks)
	if n > MaxSources {
		n = MaxSources
	}

	sources := make([]core.Source, 0, n)
	for i := 0; i < n; i++ {
		chunk := chunks[i]
		sources = append(sources, core.Source{
			ID:      chunk.ID,
			Text:    chunk.Text,
			Score:   chunk.Score,
			Chapter: chunk.Chapter(),
		})
	}
	return sources
}
