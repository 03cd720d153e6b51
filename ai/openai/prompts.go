package openai

import (
	"fmt"
	"strings"

	"github.com/vyasa-labs/gitasage/core"
)

const classifierPromptTemplate = `Classify the user's utterance and return JSON.

Output ONLY valid JSON. Do not include any preamble, explanation, greeting, or
acknowledgment. Start your response directly with the opening brace { and end
with the closing brace }. The object must have exactly these keys:

{"is_greeting": <boolean>, "language": <string>}

Rules:
- "is_greeting" is true only when the utterance is a salutation with no
  substantive question (e.g. "hello", "good morning", "namaste", "pranam").
- "language" must be exactly one of: %s.
- Script is the strongest signal: Telugu script means "telugu", Devanagari
  means "hindi", Tamil script means "tamil", Kannada script means "kannada".
- Romanized Indian-language greetings ("namaste", "vandanam") are still
  greetings; pick the language the wording belongs to, or "english" when
  ambiguous.
- The JSON must parse without errors; no trailing commas, no extra keys.

Example:
Input: "Hello"
Output: {"is_greeting": true, "language": "english"}

Example:
Input: "what is dharma"
Output: {"is_greeting": false, "language": "english"}`

// buildClassifierPrompt creates the classifier system prompt with the
// language allow-list embedded.
func buildClassifierPrompt() string {
	names := make([]string, len(core.Languages))
	for i, l := range core.Languages {
		names[i] = string(l)
	}
	return fmt.Sprintf(classifierPromptTemplate, strings.Join(names, ", "))
}
