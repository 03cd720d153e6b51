package detect

import (
	"strings"

	"github.com/vyasa-labs/gitasage/core"
)

// scriptRange is an inclusive Unicode block assigned to one language.
type scriptRange struct {
	lo, hi   rune
	language core.Language
}

// Unicode blocks for the supported scripts. Devanagari maps to Hindi since
// the corpus carries no other Devanagari language.
var scriptRanges = []scriptRange{
	{0x0900, 0x097F, core.LanguageHindi},
	{0x0B80, 0x0BFF, core.LanguageTamil},
	{0x0C00, 0x0C7F, core.LanguageTelugu},
	{0x0C80, 0x0CFF, core.LanguageKannada},
}

// romanizedHints are common transliterated words that signal a language
// written in Latin script. Checked as whole words only.
var romanizedHints = map[core.Language][]string{
	core.LanguageTelugu:  {"enti", "ela", "emiti", "cheppu", "cheppandi", "telusu", "unnaru", "bagunnara"},
	core.LanguageHindi:   {"kya", "kaise", "kaun", "kahan", "batao", "bataiye", "matlab", "samjhao"},
	core.LanguageTamil:   {"enna", "epdi", "eppadi", "sollunga", "theriyuma", "irukku"},
	core.LanguageKannada: {"yenu", "hege", "yaake", "heli", "gottha", "idira"},
}

// greetingPhrases match a whole normalized query. Longer salutations like
// "good morning everyone" are caught by the prefix table below.
var greetingPhrases = map[string]bool{
	"hi":                 true,
	"hello":              true,
	"hey":                true,
	"greetings":          true,
	"namaste":            true,
	"namaskaram":         true,
	"namaskara":          true,
	"vanakkam":           true,
	"pranam":             true,
	"hare krishna":       true,
	"jai srimannarayana": true,
	"good morning":       true,
	"good afternoon":     true,
	"good evening":       true,
	"how are you":        true,
}

var greetingPrefixes = []string{
	"good morning",
	"good afternoon",
	"good evening",
	"hello there",
	"hi there",
}

// greeting words for non-Latin scripts, matched as substrings since
// tokenization rules differ per script.
var nativeGreetings = []string{
	"నమస్కారం", // Telugu
	"నమస్తే",
	"नमस्ते", // Hindi
	"नमस्कार",
	"வணக்கம்", // Tamil
	"ನಮಸ್ಕಾರ", // Kannada
}

// detectScript returns the language of the dominant non-Latin script in the
// text, or the default language when the text is entirely Latin.
func detectScript(text string) core.Language {
	counts := make(map[core.Language]int)
	for _, r := range text {
		for _, sr := range scriptRanges {
			if r >= sr.lo && r <= sr.hi {
				counts[sr.language]++
				break
			}
		}
	}
	if len(counts) == 0 {
		return core.DefaultLanguage()
	}

	best := core.DefaultLanguage()
	bestCount := 0
	// Iterate the allow-list, not the map, so ties resolve deterministically.
	for _, lang := range core.Languages {
		if counts[lang] > bestCount {
			best = lang
			bestCount = counts[lang]
		}
	}
	return best
}

// detectRomanized looks for transliterated hint words in Latin-script text.
func detectRomanized(normalized string) (core.Language, bool) {
	words := strings.Fields(normalized)
	for _, lang := range core.Languages {
		for _, hint := range romanizedHints[lang] {
			for _, word := range words {
				if word == hint {
					return lang, true
				}
			}
		}
	}
	return core.DefaultLanguage(), false
}

// isGreetingPhrase reports whether the normalized query is a salutation with
// no substantive question attached.
func isGreetingPhrase(normalized string) bool {
	if greetingPhrases[normalized] {
		return true
	}
	for _, prefix := range greetingPrefixes {
		if normalized == prefix {
			return true
		}
	}
	// A short query opening with a greeting word still counts, e.g. "hi bot".
	words := strings.Fields(normalized)
	if len(words) > 0 && len(words) <= 3 {
		switch words[0] {
		case "hi", "hello", "hey", "namaste", "namaskaram", "vanakkam", "namaskara":
			return true
		}
	}
	for _, native := range nativeGreetings {
		if strings.Contains(normalized, native) {
			return true
		}
	}
	return false
}

// normalizeForRules lowercases, trims, and strips trailing punctuation.
func normalizeForRules(query string) string {
	s := strings.ToLower(strings.TrimSpace(query))
	return strings.TrimRight(s, "!?.,;: ")
}
