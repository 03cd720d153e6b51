package openai

import (
	"context"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/vyasa-labs/gitasage/ai"
	"github.com/vyasa-labs/gitasage/core"
)

const defaultMaxTokens = 800

// Generator implements ai.Generator using OpenAI-compatible chat APIs.
type Generator struct {
	client  llms.Model
	timeout timeoutFunc
	logger  *slog.Logger
}

// newGenerator is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newGenerator(config *ai.Config) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.Host),
		openai.WithToken(config.Token),
		openai.WithModel(config.GeneratorModel),
	)
	if err != nil {
		return nil, err
	}

	return &Generator{
		client:  client,
		timeout: boundedBy(config.GenerateTimeout),
		logger:  slog.Default().With("component", "openai-generator"),
	}, nil
}

// NewGenerator creates a new generator using the provided configuration.
//
// Returns ai.Generator interface to enforce abstraction.
func NewGenerator(config *ai.Config) (ai.Generator, error) {
	return newGenerator(config)
}

// Generate produces a complete answer in one call.
func (g *Generator) Generate(ctx context.Context, req ai.GenerateRequest) (string, error) {
	ctx, cancel := g.timeout(ctx)
	defer cancel()

	response, err := g.client.GenerateContent(ctx, buildMessages(req),
		llms.WithTemperature(0.1),
		llms.WithMaxTokens(maxTokens(req)),
	)
	if err != nil {
		g.logger.Error("failed to generate answer", "err", err)
		return "", err
	}

	if len(response.Choices) < 1 {
		g.logger.Warn("no choices returned from model")
		return "", nil
	}

	return response.Choices[0].Content, nil
}

// GenerateStream produces the answer incrementally. Every fragment is
// forwarded to fn as it arrives; the accumulated full text is returned once
// the stream finishes. An error from fn or a cancelled context stops the
// stream and the partial text is not returned.
func (g *Generator) GenerateStream(ctx context.Context, req ai.GenerateRequest, fn ai.StreamFunc) (string, error) {
	ctx, cancel := g.timeout(ctx)
	defer cancel()

	var buf strings.Builder
	_, err := g.client.GenerateContent(ctx, buildMessages(req),
		llms.WithTemperature(0.1),
		llms.WithMaxTokens(maxTokens(req)),
		llms.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
			fragment := string(chunk)
			if fragment == "" {
				return nil
			}
			buf.WriteString(fragment)
			return fn(ctx, fragment)
		}),
	)
	if err != nil {
		g.logger.Error("streaming generation failed", "err", err)
		return "", err
	}

	return buf.String(), nil
}

// buildMessages assembles the chat transcript: system prompt, structured
// history (oldest first), then the evidence-bearing user message.
func buildMessages(req ai.GenerateRequest) []llms.MessageContent {
	messages := make([]llms.MessageContent, 0, len(req.History)+2)

	if req.SystemPrompt != "" {
		messages = append(messages, llms.MessageContent{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(req.SystemPrompt)},
		})
	}

	for _, msg := range req.History {
		messages = append(messages, llms.MessageContent{
			Role:  chatRole(msg.Role),
			Parts: []llms.ContentPart{llms.TextPart(msg.Content)},
		})
	}

	user := "Question: " + req.Query
	if req.Context != "" {
		user = "Context:\n\n" + req.Context + "\n\n" + user
	}
	messages = append(messages, llms.MessageContent{
		Role:  llms.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{llms.TextPart(user)},
	})

	return messages
}

func chatRole(role core.Role) llms.ChatMessageType {
	switch role {
	case core.RoleSystem:
		return llms.ChatMessageTypeSystem
	case core.RoleAssistant:
		return llms.ChatMessageTypeAI
	default:
		return llms.ChatMessageTypeHuman
	}
}

func maxTokens(req ai.GenerateRequest) int {
	if req.MaxTokens > 0 {
		return req.MaxTokens
	}
	return defaultMaxTokens
}
