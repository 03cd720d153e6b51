package engine

import (
	"github.com/vyasa-labs/gitasage/core"
)

// Canned reply pools. Apology selection hashes the normalized query so the
// same failure mode answers the same query identically.

var greetingReplies = map[core.Language]string{
	core.LanguageEnglish: "Jai Srimannarayana! How may I help you explore the scripture today?",
	core.LanguageTelugu:  "జై శ్రీమన్నారాయణ! ఈ రోజు గ్రంథం గురించి మీకు ఎలా సహాయం చేయగలను?",
	core.LanguageHindi:   "जय श्रीमन्नारायण! आज मैं ग्रंथ के बारे में आपकी कैसे सहायता कर सकता हूँ?",
	core.LanguageTamil:   "ஜெய் ஸ்ரீமந்நாராயணா! இன்று நூலைப் பற்றி நான் எப்படி உதவலாம்?",
	core.LanguageKannada: "ಜೈ ಶ್ರೀಮನ್ನಾರಾಯಣ! ಇಂದು ಗ್ರಂಥದ ಬಗ್ಗೆ ನಾನು ಹೇಗೆ ಸಹಾಯ ಮಾಡಲಿ?",
}

var noKnowledgeMessages = map[core.Language]string{
	core.LanguageEnglish: "Sorry, I couldn't find relevant information about that in the available text. Could you rephrase your question or ask about the available chapters?",
	core.LanguageTelugu:  "క్షమించండి, అందుబాటులో ఉన్న గ్రంథంలో దాని గురించి సమాచారం దొరకలేదు. దయచేసి మీ ప్రశ్నను మార్చి అడగండి.",
	core.LanguageHindi:   "क्षमा करें, उपलब्ध ग्रंथ में मुझे इस बारे में जानकारी नहीं मिली। कृपया अपना प्रश्न दूसरे शब्दों में पूछें।",
	core.LanguageTamil:   "மன்னிக்கவும், கிடைக்கும் நூலில் அது பற்றிய தகவல் கிடைக்கவில்லை. உங்கள் கேள்வியை வேறு விதமாக கேளுங்கள்.",
	core.LanguageKannada: "ಕ್ಷಮಿಸಿ, ಲಭ್ಯವಿರುವ ಗ್ರಂಥದಲ್ಲಿ ಅದರ ಬಗ್ಗೆ ಮಾಹಿತಿ ಸಿಗಲಿಲ್ಲ. ದಯವಿಟ್ಟು ನಿಮ್ಮ ಪ್ರಶ್ನೆಯನ್ನು ಬೇರೆ ರೀತಿ ಕೇಳಿ.",
}

var apologies = []string{
	"I apologize, but I'm having trouble answering that right now. Please try asking again in a moment.",
	"Something went wrong on my side while preparing your answer. Please ask once more.",
	"I couldn't complete that answer just now. Give me a moment and try again.",
	"My apologies, I ran into a problem while answering. Please repeat your question shortly.",
}

func greetingReply(language core.Language) string {
	if msg, ok := greetingReplies[language]; ok {
		return msg
	}
	return greetingReplies[core.DefaultLanguage()]
}

func noKnowledgeMessage(language core.Language) string {
	if msg, ok := noKnowledgeMessages[language]; ok {
		return msg
	}
	return noKnowledgeMessages[core.DefaultLanguage()]
}

func apologyFor(normalized string) string {
	return apologies[uint64(core.IDFromContent(normalized))%uint64(len(apologies))]
}
