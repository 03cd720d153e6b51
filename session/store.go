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

package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/vyasa-labs/gitasage/core"
	"github.com/vyasa-labs/gitasage/storage"
)

// DefaultCapacity is the number of turns a session retains.
const DefaultCapacity = 10

// Store keeps per-session conversation history in memory, bounded to the
// most recent turns. An optional TurnRepository makes history durable: turns
// write through on append and sessions absent from memory hydrate from it.
type Store struct {
	mu       sync.Mutex
	sessions map[string][]*core.Turn
	capacity int
	repo     storage.TurnRepository
	logger   *slog.Logger
	newID    func() string
}

// Option configures a Store.
type Option func(*Store)

// WithCapacity overrides the per-session turn limit.
func WithCapacity(capacity int) Option {
	return func(s *Store) {
		s.capacity = capacity
	}
}

// WithRepository attaches a durable backing store.
func WithRepository(repo storage.TurnRepository) Option {
	return func(s *Store) {
		s.repo = repo
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore creates a session store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		sessions: make(map[string][]*core.Turn),
		capacity: DefaultCapacity,
		logger:   slog.Default(),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetOrCreate returns the given session ID, minting a fresh one when the
// caller supplies none. The session itself materializes on first append.
func (s *Store) GetOrCreate(sessionID string) string {
	if sessionID != "" {
		return sessionID
	}
	return s.newID()
}

// AppendTurn records a completed exchange. The in-memory window drops its
// oldest turn beyond capacity. A write-through failure on the durable store
// is logged, not returned: losing history must never fail an answer.
func (s *Store) AppendTurn(ctx context.Context, sessionID string, turn *core.Turn) error {
	if err := core.ValidateTurn(turn); err != nil {
		return err
	}

	s.mu.Lock()
	turns := append(s.sessions[sessionID], turn)
	if len(turns) > s.capacity {
		turns = turns[len(turns)-s.capacity:]
	}
	s.sessions[sessionID] = turns
	s.mu.Unlock()

	if s.repo != nil {
		if err := s.repo.AddTurn(ctx, sessionID, turn); err != nil {
			s.logger.Warn("turn write-through failed", "session_id", sessionID, "error", err)
		}
	}
	return nil
}

// Turns returns the retained history of a session in chronological order.
// The returned slice is a copy the caller may hold freely.
func (s *Store) Turns(ctx context.Context, sessionID string) []*core.Turn {
	s.mu.Lock()
	turns, ok := s.sessions[sessionID]
	if ok {
		out := make([]*core.Turn, len(turns))
		copy(out, turns)
		s.mu.Unlock()
		return out
	}
	s.mu.Unlock()

	if s.repo == nil {
		return nil
	}

	restored, err := s.repo.RecentTurns(ctx, sessionID, s.capacity)
	if err != nil {
		s.logger.Warn("session hydration failed", "session_id", sessionID, "error", err)
		return nil
	}
	if len(restored) == 0 {
		return nil
	}

	s.mu.Lock()
	if _, raced := s.sessions[sessionID]; !raced {
		s.sessions[sessionID] = restored
	}
	s.mu.Unlock()

	out := make([]*core.Turn, len(restored))
	copy(out, restored)
	return out
}

// Forget drops a session's in-memory history. Durable history, if any,
// survives and will rehydrate on the next read.
func (s *Store) Forget(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}
