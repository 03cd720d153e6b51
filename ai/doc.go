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


// Package ai defines the interfaces for the hosted AI services the pipeline
// depends on: text embedding, answer generation (sync and streaming), and
// language/greeting classification.
//
// The interfaces decouple pipeline logic from concrete providers:
//
//   - ai/openai implements them against any OpenAI-compatible API
//   - ai/mock provides deterministic test doubles with call counting
//
// All implementations must be safe for concurrent use. Every method takes a
// context.Context; production implementations bound each call with the
// timeouts carried in Config, so no pipeline stage can block indefinitely.
package ai
