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

package guard

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/vyasa-labs/gitasage/core"
	"github.com/vyasa-labs/gitasage/storage"
)

// sectionsCacheTTL bounds how stale the cached chapter list may get. The
// corpus changes only on reseeding, so staleness here is harmless.
const sectionsCacheTTL = 5 * time.Minute

// Reason names why the gate blocked a query.
type Reason string

const (
	ReasonEmptyQuery         Reason = "empty_query"
	ReasonUnavailableSection Reason = "unavailable_section"
)

// Decision is the gate's verdict on one query. A blocked decision carries a
// user-facing message in the query's language.
type Decision struct {
	Allowed  bool
	Reason   Reason
	Message  string
	Sections []int
}

var allowed = Decision{Allowed: true}

// Gate screens queries before any retrieval work happens. It rejects empty
// input and references to chapters the corpus does not hold. Corpus
// structure comes from the chunk index and is cached briefly; if discovery
// fails the gate fails open so a storage hiccup never blocks answers.
type Gate struct {
	index  storage.ChunkIndex
	logger *slog.Logger

	mu         sync.Mutex
	sections   []int
	sectionsAt time.Time
	now        func() time.Time
}

// Option configures a Gate.
type Option func(*Gate)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gate) {
		g.logger = logger
	}
}

// WithClock injects a time source for tests.
func WithClock(now func() time.Time) Option {
	return func(g *Gate) {
		g.now = now
	}
}

// NewGate creates a Gate over the given chunk index.
func NewGate(index storage.ChunkIndex, opts ...Option) (*Gate, error) {
	if index == nil {
		return nil, errors.New("chunk index is required")
	}
	g := &Gate{
		index:  index,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Check screens a query. chapter is the explicit chapter reference extracted
// during normalization, 0 when absent.
func (g *Gate) Check(ctx context.Context, normalized string, chapter int, language core.Language) Decision {
	if normalized == "" {
		return Decision{
			Allowed: false,
			Reason:  ReasonEmptyQuery,
			Message: emptyQueryMessage(language),
		}
	}

	if chapter > 0 {
		sections, ok := g.availableSections(ctx)
		if ok && len(sections) > 0 && !slices.Contains(sections, chapter) {
			return Decision{
				Allowed:  false,
				Reason:   ReasonUnavailableSection,
				Message:  unavailableSectionMessage(language, chapter, sections),
				Sections: sections,
			}
		}
	}

	return allowed
}

// availableSections returns the cached chapter list, refreshing it past the
// TTL. The second return is false when discovery failed and the caller
// should fail open.
func (g *Gate) availableSections(ctx context.Context) ([]int, bool) {
	g.mu.Lock()
	if g.sections != nil && g.now().Sub(g.sectionsAt) < sectionsCacheTTL {
		sections := g.sections
		g.mu.Unlock()
		return sections, true
	}
	g.mu.Unlock()

	sections, err := g.index.Sections(ctx)
	if err != nil {
		g.logger.Warn("section discovery failed, guardrail failing open", "error", err)
		return nil, false
	}
	if sections == nil {
		sections = []int{}
	}

	g.mu.Lock()
	g.sections = sections
	g.sectionsAt = g.now()
	g.mu.Unlock()
	return sections, true
}
