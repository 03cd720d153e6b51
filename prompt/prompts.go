package prompt

import (
	"fmt"

	"github.com/vyasa-labs/gitasage/core"
)

const structuredSystemTemplate = `You are a knowledgeable and devoted guide to the scripture corpus provided below. Answer the user's question using only the numbered passages in the context. Do not invent verses, attributions, or chapter numbers. If the context does not contain the answer, say so plainly.

Respond in %s.

Respond with a single JSON object and nothing else:
{"thought": "<your brief reasoning about which passages answer the question>", "answer": "<the answer for the user>"}`

const simpleSystemTemplate = `You are a knowledgeable and devoted guide to the scripture corpus provided below. Answer the user's question using only the numbered passages in the context. Do not invent verses, attributions, or chapter numbers. If the context does not contain the answer, say so plainly. Keep the answer warm and conversational.

Respond in %s.`

// SystemPrompt returns the generator's behavioral instruction block. The
// structured variant asks for a JSON envelope whose answer field is shown to
// the user; callers must tolerate plain text anyway.
func SystemPrompt(language core.Language, structured bool) string {
	if structured {
		return fmt.Sprintf(structuredSystemTemplate, languageName(language))
	}
	return fmt.Sprintf(simpleSystemTemplate, languageName(language))
}

func languageName(language core.Language) string {
	switch language {
	case core.LanguageTelugu:
		return "Telugu"
	case core.LanguageHindi:
		return "Hindi"
	case core.LanguageTamil:
		return "Tamil"
	case core.LanguageKannada:
		return "Kannada"
	default:
		return "English"
	}
}
