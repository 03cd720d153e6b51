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

	"github.com/dgraph-io/badger/v4"
	"github.com/vyasa-labs/gitasage/core"
	"github.com/vyasa-labs/gitasage/storage"
)

// TurnRepository implements storage.TurnRepository for BadgerDB.
type TurnRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.TurnRepository = (*TurnRepository)(nil)

// NewTurnRepository creates a TurnRepository on the given backend.
func NewTurnRepository(backend *Backend) (storage.TurnRepository, error) {
	idSeq, err := backend.GetSequence(turnIDSeq)
	if err != nil {
		return nil, err
	}

	return &TurnRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *TurnRepository) Close() error {
	return r.idSeq.Release()
}

// AddTurn appends a turn to a session's history.
func (r *TurnRepository) AddTurn(ctx context.Context, sessionID string, turn *core.Turn) error {
	if sessionID == "" {
		return storage.ErrInvalidQuery
	}
	if err := core.ValidateTurn(turn); err != nil {
		return err
	}
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	seq, err := r.idSeq.Next()
	if err != nil {
		return err
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeTurnKey(sessionID, turn.Timestamp.UnixMicro(), seq)
		if err := tx.Set(key, storage.MarshalTurn(turn)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// RecentTurns retrieves the last limit turns of a session in chronological
// order (oldest first). An unknown session yields an empty slice.
func (r *TurnRepository) RecentTurns(ctx context.Context, sessionID string, limit int) ([]*core.Turn, error) {
	if sessionID == "" || limit <= 0 {
		return nil, storage.ErrInvalidQuery
	}
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	// Keys sort chronologically, so the newest limit turns are collected by
	// iterating in reverse and then flipping the window back around.
	var newestFirst []*core.Turn
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := makeTurnSessionPrefix(sessionID)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.Reverse = true
		it := tx.NewIterator(opts)
		defer it.Close()

		// Reverse iteration seeks to the highest key under the prefix.
		seek := append(append([]byte{}, prefix...), 0xFF)
		for it.Seek(seek); it.Valid() && len(newestFirst) < limit; it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := it.Item().Value(func(val []byte) error {
				turn, err := storage.UnmarshalTurn(val)
				if err != nil {
					return err
				}
				newestFirst = append(newestFirst, turn)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	turns := make([]*core.Turn, len(newestFirst))
	for i, turn := range newestFirst {
		turns[len(newestFirst)-1-i] = turn
	}
	return turns, nil
}
