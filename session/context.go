package session

import (
	"context"
	"strings"

	"github.com/vyasa-labs/gitasage/core"
)

// historyPrologues introduce the flattened history block in the user's
// language. Unlisted languages fall back to English.
var historyPrologues = map[core.Language]string{
	core.LanguageEnglish: "Previous conversation:",
	core.LanguageTelugu:  "మునుపటి సంభాషణ:",
	core.LanguageHindi:   "पिछली बातचीत:",
	core.LanguageTamil:   "முந்தைய உரையாடல்:",
	core.LanguageKannada: "ಹಿಂದಿನ ಸಂಭಾಷಣೆ:",
}

const historySystemHint = "The following messages are the prior conversation with this user. Use them to resolve pronouns and follow-up references."

// FlattenedContext renders the session history as a single text block for
// generators that take one context string. Returns "" for an empty history.
func (s *Store) FlattenedContext(ctx context.Context, sessionID string, language core.Language) string {
	turns := s.Turns(ctx, sessionID)
	if len(turns) == 0 {
		return ""
	}

	prologue, ok := historyPrologues[language]
	if !ok {
		prologue = historyPrologues[core.DefaultLanguage()]
	}

	var sb strings.Builder
	sb.WriteString(prologue)
	for _, turn := range turns {
		sb.WriteString("\nQ: ")
		sb.WriteString(turn.UserQuery)
		if turn.BotResponse != "" {
			sb.WriteString("\nA: ")
			sb.WriteString(turn.BotResponse)
		}
	}
	return sb.String()
}

// Messages renders the session history as role-tagged messages for
// generators that accept multi-turn input, prefixed with a system hint.
// The two views carry the same turns in the same order. Returns nil for an
// empty history.
func (s *Store) Messages(ctx context.Context, sessionID string) []core.Message {
	turns := s.Turns(ctx, sessionID)
	if len(turns) == 0 {
		return nil
	}

	messages := make([]core.Message, 0, len(turns)*2+1)
	messages = append(messages, core.Message{
		Role:    core.RoleSystem,
		Content: historySystemHint,
	})
	for _, turn := range turns {
		messages = append(messages, core.Message{
			Role:    core.RoleUser,
			Content: turn.UserQuery,
		})
		if turn.BotResponse != "" {
			messages = append(messages, core.Message{
				Role:    core.RoleAssistant,
				Content: turn.BotResponse,
			})
		}
	}
	return messages
}
