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


package ai

import (
	"errors"
	"strings"
	"time"
)

// Config holds configuration for AI service providers.
type Config struct {
	// Host is the base URL for the OpenAI-compatible API.
	// Example: "http://localhost:11434/v1" for a local server.
	Host string

	// Token is the API token. Use "none" for local services without auth.
	Token string

	// EmbeddingModel is the model identifier for text embeddings.
	// Example: "text-embedding-3-small"
	EmbeddingModel string

	// GeneratorModel is the model identifier for answer generation.
	// Example: "gpt-4o-mini"
	GeneratorModel string

	// ClassifierModel is the model identifier for language classification.
	// Usually the same small chat model as the generator.
	ClassifierModel string

	// ClassifyTimeout bounds each classifier call. Kept short so detection
	// falls back to local heuristics quickly. Default: 3s.
	ClassifyTimeout time.Duration

	// EmbedTimeout bounds each embedding call. Default: 15s.
	EmbedTimeout time.Duration

	// GenerateTimeout bounds each generation call. Default: 60s.
	GenerateTimeout time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithHost sets the API base URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.Host = host
	}
}

// WithToken sets the API token.
func WithToken(token string) ConfigOption {
	return func(c *Config) {
		c.Token = token
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithGeneratorModel sets the generator model identifier.
func WithGeneratorModel(model string) ConfigOption {
	return func(c *Config) {
		c.GeneratorModel = model
	}
}

// WithClassifierModel sets the classifier model identifier.
func WithClassifierModel(model string) ConfigOption {
	return func(c *Config) {
		c.ClassifierModel = model
	}
}

// WithClassifyTimeout sets the classifier call timeout.
func WithClassifyTimeout(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.ClassifyTimeout = d
	}
}

// WithEmbedTimeout sets the embedding call timeout.
func WithEmbedTimeout(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.EmbedTimeout = d
	}
}

// WithGenerateTimeout sets the generation call timeout.
func WithGenerateTimeout(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.GenerateTimeout = d
	}
}

// DefaultConfig returns a Config with sensible defaults for a hosted
// OpenAI-compatible service.
func DefaultConfig() *Config {
	return &Config{
		Host:            "https://api.openai.com/v1",
		Token:           "none",
		EmbeddingModel:  "text-embedding-3-small",
		GeneratorModel:  "gpt-4o-mini",
		ClassifierModel: "gpt-4o-mini",
		ClassifyTimeout: 3 * time.Second,
		EmbedTimeout:    15 * time.Second,
		GenerateTimeout: 60 * time.Second,
	}
}

// NewConfig creates a Config with the default values and applies the provided
// options. This is the recommended way to create a Config.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form. It adds the /v1
// suffix to the host if missing, which is required by most OpenAI-compatible
// APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	if c.Host != "" && !strings.HasSuffix(c.Host, "/v1") {
		c.Host = strings.TrimSuffix(c.Host, "/")
		c.Host = c.Host + "/v1"
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.Host == "" {
		return errors.New("ai config: Host is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.GeneratorModel == "" {
		return errors.New("ai config: GeneratorModel is required")
	}
	if c.ClassifierModel == "" {
		return errors.New("ai config: ClassifierModel is required")
	}
	if c.ClassifyTimeout <= 0 || c.EmbedTimeout <= 0 || c.GenerateTimeout <= 0 {
		return errors.New("ai config: timeouts must be positive")
	}
	return nil
}
