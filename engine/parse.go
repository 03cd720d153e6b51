package engine

import (
	"encoding/json"
	"strings"
)

// generated is the parsed form of raw generator output. Generators are asked
// for a JSON envelope but frequently answer in plain prose, so parsing never
// fails; it degrades to the plain variant.
type generated struct {
	structured bool
	thought    string
	answer     string
}

type structuredEnvelope struct {
	Thought string `json:"thought"`
	Answer  string `json:"answer"`
}

// parseGenerated interprets raw generator output. Code fences are stripped
// before the JSON attempt. Any envelope missing the answer field counts as
// plain text.
func parseGenerated(raw string) generated {
	text := strings.TrimSpace(raw)
	candidate := stripCodeFence(text)

	var env structuredEnvelope
	if err := json.Unmarshal([]byte(candidate), &env); err == nil && env.Answer != "" {
		return generated{
			structured: true,
			thought:    env.Thought,
			answer:     env.Answer,
		}
	}
	return generated{answer: text}
}

func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
