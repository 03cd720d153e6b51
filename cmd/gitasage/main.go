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

package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"github.com/vyasa-labs/gitasage/ai"
	"github.com/vyasa-labs/gitasage/ai/openai"
	"github.com/vyasa-labs/gitasage/core"
	"github.com/vyasa-labs/gitasage/detect"
	"github.com/vyasa-labs/gitasage/engine"
	"github.com/vyasa-labs/gitasage/guard"
	"github.com/vyasa-labs/gitasage/retrieval"
	"github.com/vyasa-labs/gitasage/session"
	"github.com/vyasa-labs/gitasage/storage/badger"
)

func main() {
	app := &cli.App{
		Name:   "gitasage",
		Usage:  "Conversational question answering over a scripture corpus",
		Before: setupLogger,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "ask",
				Usage:  "Answer a single question and exit",
				Action: askCommand,
				Flags: append(pipelineFlags(), &cli.StringFlag{
					Name:  "session",
					Usage: "Session ID for follow-up context",
				}),
			},
			{
				Name:   "chat",
				Usage:  "Interactive chat with streamed answers",
				Action: chatCommand,
				Flags:  pipelineFlags(),
			},
			{
				Name:   "seed",
				Usage:  "Load a JSONL corpus file into the chunk index",
				Action: seedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "corpus",
						Aliases:  []string{"c"},
						Usage:    "Path to the JSONL corpus file",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "host",
						Usage: "OpenAI-compatible API base URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "token",
						Usage: "API token",
						Value: "none",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model for chunks without vectors",
						Value: "text-embedding-3-small",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Chunks per embedding batch",
						Value: 64,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func pipelineFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "host",
			Usage: "OpenAI-compatible API base URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "token",
			Usage: "API token",
			Value: "none",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "text-embedding-3-small",
		},
		&cli.StringFlag{
			Name:  "generator-model",
			Usage: "Answer generation model name",
			Value: "gpt-4o-mini",
		},
		&cli.StringFlag{
			Name:  "classifier-model",
			Usage: "Language classification model name",
			Value: "gpt-4o-mini",
		},
	}
}

// pipeline bundles everything a command needs to answer questions plus the
// handles it must close afterwards.
type pipeline struct {
	orchestrator *engine.Orchestrator
	closers      []func() error
}

func (p *pipeline) close() {
	for i := len(p.closers) - 1; i >= 0; i-- {
		if err := p.closers[i](); err != nil {
			slog.Warn("shutdown error", "error", err)
		}
	}
}

func buildPipeline(c *cli.Context) (*pipeline, error) {
	config := ai.NewConfig(
		ai.WithHost(c.String("host")),
		ai.WithToken(c.String("token")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithGeneratorModel(c.String("generator-model")),
		ai.WithClassifierModel(c.String("classifier-model")),
	)

	provider, err := openai.NewProvider(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create AI provider: %w", err)
	}

	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		provider.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	p := &pipeline{closers: []func() error{provider.Close, backend.Close}}

	index, err := badger.NewChunkIndex(backend)
	if err != nil {
		p.close()
		return nil, err
	}
	p.closers = append(p.closers, index.Close)

	turns, err := badger.NewTurnRepository(backend)
	if err != nil {
		p.close()
		return nil, err
	}
	p.closers = append(p.closers, turns.Close)

	feedback, err := badger.NewFeedbackStore(backend)
	if err != nil {
		p.close()
		return nil, err
	}
	p.closers = append(p.closers, feedback.Close)

	gate, err := guard.NewGate(index)
	if err != nil {
		p.close()
		return nil, err
	}

	coordinator, err := retrieval.NewCoordinator(
		engine.NewCachingEmbedder(provider.Embedder()),
		index,
		retrieval.WithMonitor(retrieval.NewLogMonitor(slog.Default())),
	)
	if err != nil {
		p.close()
		return nil, err
	}
	p.closers = append(p.closers, coordinator.Close)

	detector := detect.NewDetector(detect.WithClassifier(provider.Classifier()))
	sessions := session.NewStore(session.WithRepository(turns))

	orchestrator, err := engine.NewOrchestrator(detector, gate, coordinator, provider.Generator(),
		engine.WithSessions(sessions),
		engine.WithFeedbackRepository(feedback),
	)
	if err != nil {
		p.close()
		return nil, err
	}
	p.closers = append(p.closers, orchestrator.Close)
	p.orchestrator = orchestrator
	return p, nil
}

func askCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("usage: gitasage ask [flags] <question>")
	}

	p, err := buildPipeline(c)
	if err != nil {
		return err
	}
	defer p.close()

	answer := p.orchestrator.Answer(context.Background(), c.String("session"), question)
	printAnswer(answer)
	return nil
}

func chatCommand(c *cli.Context) error {
	p, err := buildPipeline(c)
	if err != nil {
		return err
	}
	defer p.close()

	fmt.Println("gitasage interactive chat. Type 'exit' to quit.")
	scanner := bufio.NewScanner(os.Stdin)
	sessionID := ""

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		answer := p.orchestrator.AnswerStream(context.Background(), sessionID, line,
			func(ctx context.Context, fragment string) error {
				fmt.Print(fragment)
				return nil
			})
		fmt.Println()
		sessionID = answer.SessionID
		printSources(answer.Sources)
	}
	return scanner.Err()
}

func printAnswer(answer core.Answer) {
	fmt.Println(answer.Answer)
	printSources(answer.Sources)
	fmt.Fprintf(os.Stderr, "\n[session %s | %s | confidence %.3f]\n",
		answer.SessionID, answer.Outcome, answer.Confidence)
}

func printSources(sources []core.Source) {
	if len(sources) == 0 {
		return
	}
	fmt.Println("\nSources:")
	for i, src := range sources {
		if src.Chapter > 0 {
			fmt.Printf("  %d. [chapter %d, %.3f] %s\n", i+1, src.Chapter, src.Score, snippet(src.Text))
		} else {
			fmt.Printf("  %d. [%.3f] %s\n", i+1, src.Score, snippet(src.Text))
		}
	}
}

func snippet(text string) string {
	const max = 120
	text = strings.ReplaceAll(text, "\n", " ")
	if len(text) <= max {
		return text
	}
	return text[:max] + "..."
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
