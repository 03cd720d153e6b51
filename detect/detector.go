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

package detect

import (
	"context"
	"log/slog"

	"github.com/vyasa-labs/gitasage/ai"
	"github.com/vyasa-labs/gitasage/core"
)

// Result is what detection reports about a query.
type Result struct {
	Language   core.Language
	IsGreeting bool
}

// Detector resolves the language of a query and whether it is a bare
// salutation. A remote classifier gives the primary signal; script and
// keyword rules take over whenever the classifier is absent, times out, or
// returns something outside the allow-list. Detection never fails.
type Detector struct {
	classifier ai.LanguageClassifier
	logger     *slog.Logger
}

// Option configures a Detector.
type Option func(*Detector)

// WithClassifier sets the remote classifier used as the primary signal.
// Without one the detector runs on rules alone.
func WithClassifier(classifier ai.LanguageClassifier) Option {
	return func(d *Detector) {
		d.classifier = classifier
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Detector) {
		d.logger = logger
	}
}

// NewDetector creates a Detector.
func NewDetector(opts ...Option) *Detector {
	d := &Detector{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect classifies the query. The classifier result is trusted only when
// its language is on the allow-list; everything else falls through to rules.
func (d *Detector) Detect(ctx context.Context, query string) Result {
	if d.classifier != nil {
		cls, err := d.classifier.Classify(ctx, query)
		if err == nil && core.ValidLanguage(cls.Language) {
			return Result{
				Language:   cls.Language,
				IsGreeting: cls.IsGreeting,
			}
		}
		if err != nil {
			d.logger.Warn("language classifier unavailable, falling back to rules", "error", err)
		} else {
			d.logger.Warn("language classifier returned unsupported language, falling back to rules", "language", cls.Language)
		}
	}
	return d.detectByRules(query)
}

func (d *Detector) detectByRules(query string) Result {
	normalized := normalizeForRules(query)

	language := detectScript(query)
	if language == core.DefaultLanguage() {
		if hinted, ok := detectRomanized(normalized); ok {
			language = hinted
		}
	}

	return Result{
		Language:   language,
		IsGreeting: isGreetingPhrase(normalized),
	}
}
