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

package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/vyasa-labs/gitasage/ai"
	"github.com/vyasa-labs/gitasage/core"
)

// Classifier implements ai.LanguageClassifier using OpenAI-compatible chat
// APIs. Calls are short-timeout and temperature-0 so the caller can fall back
// to local heuristics quickly when the service misbehaves.
type Classifier struct {
	client  llms.Model
	timeout timeoutFunc
	logger  *slog.Logger
}

// classification is an internal type used for JSON unmarshaling.
// It matches the structure requested from the LLM.
type classification struct {
	IsGreeting bool   `json:"is_greeting"`
	Language   string `json:"language"`
}

// newClassifier is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newClassifier(config *ai.Config) (*Classifier, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.Host),
		openai.WithToken(config.Token),
		openai.WithModel(config.ClassifierModel),
	)
	if err != nil {
		return nil, err
	}

	return &Classifier{
		client:  client,
		timeout: boundedBy(config.ClassifyTimeout),
		logger:  slog.Default().With("component", "openai-classifier"),
	}, nil
}

// NewClassifier creates a new language classifier using the provided
// configuration.
//
// Returns ai.LanguageClassifier interface to enforce abstraction.
func NewClassifier(config *ai.Config) (ai.LanguageClassifier, error) {
	return newClassifier(config)
}

// Classify returns the greeting flag and language for an utterance.
// Any transport failure, timeout, or schema mismatch is returned as an error;
// the detect package composes this with its local heuristic fallback.
func (c *Classifier) Classify(ctx context.Context, text string) (ai.Classification, error) {
	ctx, cancel := c.timeout(ctx)
	defer cancel()

	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(buildClassifierPrompt())},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(text)},
		},
	}

	response, err := c.client.GenerateContent(ctx, content,
		llms.WithTemperature(0.0),
		llms.WithJSONMode(),
	)
	if err != nil {
		c.logger.Warn("classifier call failed", "err", err)
		return ai.Classification{}, fmt.Errorf("%w: %w", core.ErrUpstreamFailure, err)
	}

	if len(response.Choices) < 1 {
		return ai.Classification{}, fmt.Errorf("%w: no choices", core.ErrMalformedOutput)
	}

	responseText := stripCodeFences(response.Choices[0].Content)
	responseText = repairJSON(responseText)

	var result classification
	if err := json.Unmarshal([]byte(responseText), &result); err != nil {
		c.logger.Warn("error parsing classifier response", "response", responseText, "err", err)
		return ai.Classification{}, fmt.Errorf("%w: %w", core.ErrMalformedOutput, err)
	}

	language := core.Language(strings.ToLower(strings.TrimSpace(result.Language)))
	if !core.ValidLanguage(language) {
		return ai.Classification{}, fmt.Errorf("%w: %q",
			core.ErrUnsupportedLanguage, result.Language)
	}

	return ai.Classification{
		IsGreeting: result.IsGreeting,
		Language:   language,
	}, nil
}
