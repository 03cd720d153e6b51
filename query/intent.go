package query

import (
	"strings"

	"github.com/vyasa-labs/gitasage/core"
)

// chitchatPhrases match whole normalized queries that carry no corpus
// question. They get a conversational reply backed by a light retrieval
// probe instead of the full pipeline.
var chitchatPhrases = map[string]bool{
	"thanks":            true,
	"thank you":         true,
	"ok":                true,
	"okay":              true,
	"cool":              true,
	"nice":              true,
	"great":             true,
	"good":              true,
	"bye":               true,
	"goodbye":           true,
	"see you":           true,
	"who are you":       true,
	"what is your name": true,
	"what can you do":   true,
}

var questionWords = []string{
	"what", "why", "how", "when", "where", "who", "which",
	"is", "are", "does", "do", "can", "should", "tell", "explain",
}

// classifyIntent buckets a normalized query. Greetings are decided upstream;
// everything else is chitchat or a genuine question.
func classifyIntent(normalized string, isGreeting bool) core.Intent {
	if isGreeting {
		return core.IntentGreeting
	}
	if chitchatPhrases[strings.TrimRight(normalized, "!?.")] {
		return core.IntentChitchat
	}

	words := strings.Fields(normalized)
	if len(words) == 0 {
		return core.IntentChitchat
	}
	if strings.HasSuffix(normalized, "?") {
		return core.IntentQuestion
	}
	for _, qw := range questionWords {
		if words[0] == qw {
			return core.IntentQuestion
		}
	}
	// Imperatives and topic fragments like "summarize chapter 2" or "karma
	// yoga" still deserve retrieval.
	if len(words) >= 2 {
		return core.IntentQuestion
	}
	return core.IntentChitchat
}
