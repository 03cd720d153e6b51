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

import "errors"

// Pipeline outcome and validation errors
var (
	// ErrEmptyQuery indicates a blank or whitespace-only query.
	ErrEmptyQuery = errors.New("query cannot be empty")

	// ErrUnsupportedLanguage indicates the detected language is outside the
	// supported set.
	ErrUnsupportedLanguage = errors.New("unsupported language")

	// ErrUnavailableSection indicates the query references only corpus
	// sections that are not indexed.
	ErrUnavailableSection = errors.New("referenced section not indexed")

	// ErrNoRelevantContent indicates retrieval found nothing above the gate
	// threshold. A normal terminal outcome, not a transport failure.
	ErrNoRelevantContent = errors.New("no relevant content")

	// ErrUpstreamFailure indicates an embedding, search, or generation call
	// failed or timed out.
	ErrUpstreamFailure = errors.New("upstream call failed")

	// ErrMalformedOutput indicates the generator was expected to return
	// structured data and did not.
	ErrMalformedOutput = errors.New("malformed generator output")

	// ErrInvalidTurn indicates a Turn failed validation.
	ErrInvalidTurn = errors.New("invalid turn")

	// ErrInvalidFeedback indicates a Feedback failed validation.
	ErrInvalidFeedback = errors.New("invalid feedback")

	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrInvalidTimestamp indicates a timestamp is in the future.
	ErrInvalidTimestamp = errors.New("timestamp cannot be in the future")

	// ErrEmptyContent indicates a required text field is empty.
	ErrEmptyContent = errors.New("content cannot be empty")
)
