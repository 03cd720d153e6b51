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

import "github.com/vyasa-labs/gitasage/storage"

// NewMemoryStores creates an in-memory chunk index, turn repository, and
// feedback store for testing.
// Caller must close all three stores and the backend when done.
func NewMemoryStores() (storage.ChunkIndex, storage.TurnRepository, storage.FeedbackRepository, *Backend, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	index, err := NewChunkIndex(backend)
	if err != nil {
		backend.Close()
		return nil, nil, nil, nil, err
	}

	turns, err := NewTurnRepository(backend)
	if err != nil {
		index.Close()
		backend.Close()
		return nil, nil, nil, nil, err
	}

	feedback, err := NewFeedbackStore(backend)
	if err != nil {
		turns.Close()
		index.Close()
		backend.Close()
		return nil, nil, nil, nil, err
	}

	return index, turns, feedback, backend, nil
}
