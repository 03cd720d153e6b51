package guard

import (
	"fmt"
	"strings"

	"github.com/vyasa-labs/gitasage/core"
)

// Rejection messages per language. The chapter listing itself stays in
// digits, which read the same across the supported scripts.

var emptyQueryMessages = map[core.Language]string{
	core.LanguageEnglish: "Please ask a question.",
	core.LanguageTelugu:  "దయచేసి ఒక ప్రశ్న అడగండి.",
	core.LanguageHindi:   "कृपया कोई प्रश्न पूछें।",
	core.LanguageTamil:   "தயவுசெய்து ஒரு கேள்வி கேளுங்கள்.",
	core.LanguageKannada: "ದಯವಿಟ್ಟು ಒಂದು ಪ್ರಶ್ನೆ ಕೇಳಿ.",
}

var unavailableSectionTemplates = map[core.Language]string{
	core.LanguageEnglish: "Chapter %d is not available yet. Available chapters: %s.",
	core.LanguageTelugu:  "అధ్యాయం %d ఇంకా అందుబాటులో లేదు. అందుబాటులో ఉన్న అధ్యాయాలు: %s.",
	core.LanguageHindi:   "अध्याय %d अभी उपलब्ध नहीं है। उपलब्ध अध्याय: %s।",
	core.LanguageTamil:   "அத்தியாயம் %d இன்னும் கிடைக்கவில்லை. கிடைக்கும் அத்தியாயங்கள்: %s.",
	core.LanguageKannada: "ಅಧ್ಯಾಯ %d ಇನ್ನೂ ಲಭ್ಯವಿಲ್ಲ. ಲಭ್ಯವಿರುವ ಅಧ್ಯಾಯಗಳು: %s.",
}

func emptyQueryMessage(language core.Language) string {
	if msg, ok := emptyQueryMessages[language]; ok {
		return msg
	}
	return emptyQueryMessages[core.DefaultLanguage()]
}

func unavailableSectionMessage(language core.Language, chapter int, sections []int) string {
	tmpl, ok := unavailableSectionTemplates[language]
	if !ok {
		tmpl = unavailableSectionTemplates[core.DefaultLanguage()]
	}

	listed := make([]string, len(sections))
	for i, s := range sections {
		listed[i] = fmt.Sprintf("%d", s)
	}
	return fmt.Sprintf(tmpl, chapter, strings.Join(listed, ", "))
}
