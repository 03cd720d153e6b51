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

package engine

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/vyasa-labs/gitasage/ai"
	"github.com/vyasa-labs/gitasage/cache"
	"github.com/vyasa-labs/gitasage/core"
	"github.com/vyasa-labs/gitasage/detect"
	"github.com/vyasa-labs/gitasage/guard"
	"github.com/vyasa-labs/gitasage/prompt"
	"github.com/vyasa-labs/gitasage/query"
	"github.com/vyasa-labs/gitasage/retrieval"
	"github.com/vyasa-labs/gitasage/session"
	"github.com/vyasa-labs/gitasage/storage"
)

const (
	greetingConfidence = 1.0

	feedbackPoolSize    = 4
	feedbackWriteBudget = 5 * time.Second
)

// Orchestrator runs the full answer pipeline: detection, guardrails,
// normalization, response cache, retrieval, reranking, context assembly,
// generation, and session bookkeeping. Every request produces a well-formed
// Answer; upstream failures degrade to canned replies instead of errors.
type Orchestrator struct {
	detector    *detect.Detector
	gate        *guard.Gate
	coordinator *retrieval.Coordinator
	generator   ai.Generator
	responses   *cache.ResponseCache
	sessions    *session.Store
	feedback    storage.FeedbackRepository
	pool        *ants.Pool
	logger      *slog.Logger
	now         func() time.Time
	rerankMode  retrieval.RerankMode
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithResponseCache replaces the default response cache.
func WithResponseCache(c *cache.ResponseCache) Option {
	return func(o *Orchestrator) {
		o.responses = c
	}
}

// WithSessions replaces the default in-memory session store.
func WithSessions(s *session.Store) Option {
	return func(o *Orchestrator) {
		o.sessions = s
	}
}

// WithFeedbackRepository enables durable feedback capture.
func WithFeedbackRepository(repo storage.FeedbackRepository) Option {
	return func(o *Orchestrator) {
		o.feedback = repo
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithClock injects a time source for tests.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
	}
}

// WithRerankMode selects the rerank scoring formula. The default is the full
// blend; latency-sensitive deployments can switch to the fast variant.
func WithRerankMode(mode retrieval.RerankMode) Option {
	return func(o *Orchestrator) {
		o.rerankMode = mode
	}
}

// NewOrchestrator creates an Orchestrator. Detector, gate, coordinator, and
// generator are required; cache and sessions default to fresh in-memory
// instances.
func NewOrchestrator(detector *detect.Detector, gate *guard.Gate, coordinator *retrieval.Coordinator, generator ai.Generator, opts ...Option) (*Orchestrator, error) {
	if detector == nil {
		return nil, errors.New("detector is required")
	}
	if gate == nil {
		return nil, errors.New("guardrail gate is required")
	}
	if coordinator == nil {
		return nil, errors.New("retrieval coordinator is required")
	}
	if generator == nil {
		return nil, errors.New("generator is required")
	}

	pool, err := ants.NewPool(feedbackPoolSize)
	if err != nil {
		return nil, err
	}

	o := &Orchestrator{
		detector:    detector,
		gate:        gate,
		coordinator: coordinator,
		generator:   generator,
		responses:   cache.NewResponseCache(),
		sessions:    session.NewStore(),
		pool:        pool,
		logger:      slog.Default(),
		now:         time.Now,
		rerankMode:  retrieval.RerankFull,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Close releases the feedback worker pool.
func (o *Orchestrator) Close() error {
	o.pool.Release()
	return nil
}

// Answer runs the pipeline for one query and returns a complete answer.
func (o *Orchestrator) Answer(ctx context.Context, sessionID, rawQuery string) core.Answer {
	return o.answer(ctx, sessionID, rawQuery, nil)
}

// AnswerStream runs the pipeline and forwards generated text fragments to fn
// as they arrive. Short-circuit replies (greetings, cache hits, guardrail
// rejections) arrive as a single fragment. On generation failure nothing is
// cached or recorded and the canned apology is both streamed and returned.
func (o *Orchestrator) AnswerStream(ctx context.Context, sessionID, rawQuery string, fn ai.StreamFunc) core.Answer {
	if fn == nil {
		fn = func(context.Context, string) error { return nil }
	}
	return o.answer(ctx, sessionID, rawQuery, fn)
}

func (o *Orchestrator) answer(ctx context.Context, sessionID, rawQuery string, stream ai.StreamFunc) core.Answer {
	sessionID = o.sessions.GetOrCreate(sessionID)

	// Blank input is rejected before detection or any other upstream call.
	// No turn is recorded here: a turn with no user text fails validation.
	if strings.TrimSpace(rawQuery) == "" {
		decision := o.gate.Check(ctx, "", 0, core.DefaultLanguage())
		return o.emit(ctx, stream, core.Answer{
			Answer:    decision.Message,
			SessionID: sessionID,
			Language:  core.DefaultLanguage(),
			Outcome:   core.OutcomeBlocked,
		})
	}

	detected := o.detector.Detect(ctx, rawQuery)
	norm := query.Normalize(rawQuery, detected.IsGreeting)

	if decision := o.gate.Check(ctx, norm.Normalized, norm.Chapter, detected.Language); !decision.Allowed {
		answer := core.Answer{
			Answer:    decision.Message,
			SessionID: sessionID,
			Language:  detected.Language,
			Outcome:   core.OutcomeBlocked,
		}
		o.recordTurn(ctx, sessionID, norm.Original, answer.Answer, detected.Language)
		return o.emit(ctx, stream, answer)
	}

	if norm.Intent == core.IntentGreeting {
		answer := core.Answer{
			Answer:     greetingReply(detected.Language),
			Confidence: greetingConfidence,
			SessionID:  sessionID,
			Language:   detected.Language,
			Outcome:    core.OutcomeGreeting,
		}
		o.recordTurn(ctx, sessionID, norm.Original, answer.Answer, detected.Language)
		return o.emit(ctx, stream, answer)
	}

	if cached, ok := o.responses.Get(norm.Normalized); ok {
		cached.SessionID = sessionID
		o.recordTurn(ctx, sessionID, norm.Original, cached.Answer, detected.Language)
		return o.emit(ctx, stream, cached)
	}

	result, err := o.coordinator.Retrieve(ctx, probesFor(norm), norm.Comprehensive)
	if err != nil {
		o.logger.Error("retrieval failed", "session_id", sessionID, "error", err)
		return o.emit(ctx, stream, core.Answer{
			Answer:    apologyFor(norm.Normalized),
			SessionID: sessionID,
			Language:  detected.Language,
			Outcome:   core.OutcomeFallback,
		})
	}

	if !result.GatePassed && norm.Intent != core.IntentChitchat {
		answer := core.Answer{
			Answer:     noKnowledgeMessage(detected.Language),
			Confidence: result.TopScore,
			SessionID:  sessionID,
			Language:   detected.Language,
			Outcome:    core.OutcomeNoKnowledge,
		}
		o.recordTurn(ctx, sessionID, norm.Original, answer.Answer, detected.Language)
		return o.emit(ctx, stream, answer)
	}

	reranked := retrieval.Rerank(norm.Normalized, result.Retained, o.rerankMode)
	topN := retrieval.TopN(norm.Intent, norm.Comprehensive)

	// Streamed output cannot carry the JSON envelope; chitchat replies skip
	// it too since there is little evidence to reason over.
	structured := stream == nil && norm.Intent == core.IntentQuestion

	req := ai.GenerateRequest{
		SystemPrompt: prompt.SystemPrompt(detected.Language, structured),
		Context:      prompt.AssembleContext(reranked, topN),
		Query:        norm.Original,
		History:      o.sessions.Messages(ctx, sessionID),
	}

	var raw string
	if stream == nil {
		raw, err = o.generator.Generate(ctx, req)
	} else {
		raw, err = o.generator.GenerateStream(ctx, req, stream)
	}
	if err != nil {
		o.logger.Error("generation failed", "session_id", sessionID, "error", err)
		answer := core.Answer{
			Answer:    apologyFor(norm.Normalized),
			SessionID: sessionID,
			Language:  detected.Language,
			Outcome:   core.OutcomeFallback,
		}
		if stream != nil && ctx.Err() == nil {
			o.emit(ctx, stream, answer)
		}
		return answer
	}

	parsed := parseGenerated(raw)
	answer := core.Answer{
		Answer:     parsed.answer,
		Confidence: result.TopScore,
		Sources:    prompt.Sources(reranked),
		SessionID:  sessionID,
		Language:   detected.Language,
		Outcome:    core.OutcomeAnswered,
	}

	shared := answer
	shared.SessionID = ""
	o.responses.Put(norm.Normalized, shared)

	o.recordTurn(ctx, sessionID, norm.Original, answer.Answer, detected.Language)
	return answer
}

// SubmitFeedback validates and persists a feedback record off the request
// path. The write happens on the worker pool with its own deadline; the
// caller only ever sees validation errors.
func (o *Orchestrator) SubmitFeedback(fb *core.Feedback) error {
	if err := core.ValidateFeedback(fb); err != nil {
		return err
	}
	if fb.Timestamp.IsZero() {
		fb.Timestamp = o.now().UTC()
	}
	if o.feedback == nil {
		o.logger.Debug("feedback dropped, no repository configured", "session_id", fb.SessionID)
		return nil
	}

	return o.pool.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), feedbackWriteBudget)
		defer cancel()
		if err := o.feedback.AddFeedback(ctx, fb); err != nil {
			o.logger.Error("feedback write failed", "session_id", fb.SessionID, "error", err)
		}
	})
}

// probesFor builds the retrieval probe set: the normalized query plus its
// expansion when they differ.
func probesFor(norm query.Result) []string {
	if norm.Expanded == norm.Normalized {
		return []string{norm.Normalized}
	}
	return []string{norm.Normalized, norm.Expanded}
}

// emit forwards a short-circuit answer to the stream callback, if any.
func (o *Orchestrator) emit(ctx context.Context, stream ai.StreamFunc, answer core.Answer) core.Answer {
	if stream != nil {
		if err := stream(ctx, answer.Answer); err != nil {
			o.logger.Warn("stream delivery failed", "session_id", answer.SessionID, "error", err)
		}
	}
	return answer
}

func (o *Orchestrator) recordTurn(ctx context.Context, sessionID, userQuery, botResponse string, language core.Language) {
	turn := &core.Turn{
		Timestamp:   o.now().UTC(),
		UserQuery:   userQuery,
		BotResponse: botResponse,
		Language:    language,
	}
	if err := o.sessions.AppendTurn(ctx, sessionID, turn); err != nil {
		o.logger.Warn("session append failed", "session_id", sessionID, "error", err)
	}
}
