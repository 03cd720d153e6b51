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

package core

import (
	"fmt"
	"time"
)

// ValidateTurn validates a Turn according to domain rules.
//
// Validation rules:
//   - UserQuery must not be empty
//   - Language must be in the allow-list
//   - Timestamp must not be in the future
//
// BotResponse may be empty: blocked and no-knowledge turns still carry the
// canned reply, but validation does not depend on it.
func ValidateTurn(turn *Turn) error {
	if turn == nil {
		return fmt.Errorf("%w: turn is nil", ErrInvalidTurn)
	}

	if turn.UserQuery == "" {
		return fmt.Errorf("%w: %w", ErrInvalidTurn, ErrEmptyContent)
	}

	if !ValidLanguage(turn.Language) {
		return fmt.Errorf("%w: language %q", ErrInvalidTurn, turn.Language)
	}

	if !IsValidTimestamp(turn.Timestamp) {
		return fmt.Errorf("%w: %w", ErrInvalidTurn, ErrInvalidTimestamp)
	}

	return nil
}

// ValidateFeedback validates a Feedback according to domain rules.
//
// Validation rules:
//   - Rating must be between 1 and 5
//   - SessionID must not be empty
func ValidateFeedback(fb *Feedback) error {
	if fb == nil {
		return fmt.Errorf("%w: feedback is nil", ErrInvalidFeedback)
	}

	if fb.SessionID == "" {
		return fmt.Errorf("%w: session id is empty", ErrInvalidFeedback)
	}

	if fb.Rating < 1 || fb.Rating > 5 {
		return fmt.Errorf("%w: rating %d out of range", ErrInvalidFeedback, fb.Rating)
	}

	return nil
}

// ValidateChunk validates a corpus Chunk before it is indexed.
//
// Validation rules:
//   - ID must not be empty
//   - Text must not be empty
//
// Vector is NOT validated: chunks may arrive without embeddings and be
// embedded during seeding.
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.ID == "" {
		return fmt.Errorf("%w: id is empty", ErrInvalidChunk)
	}

	if chunk.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyContent)
	}

	return nil
}

// IsValidTimestamp checks if a timestamp is valid (not in the future).
func IsValidTimestamp(ts time.Time) bool {
	return !ts.After(time.Now())
}
