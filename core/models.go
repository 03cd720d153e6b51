package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for content-addressed entities such as cache
// entries and corpus chunks.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b
// hashing. Identical content always produces the identical ID.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Language identifies a conversational language the detector can report.
type Language string

const (
	LanguageEnglish Language = "english"
	LanguageTelugu  Language = "telugu"
	LanguageHindi   Language = "hindi"
	LanguageTamil   Language = "tamil"
	LanguageKannada Language = "kannada"
)

// Languages is the detector allow-list. The first entry is the default
// language used when no detection signal matches.
var Languages = []Language{
	LanguageEnglish,
	LanguageTelugu,
	LanguageHindi,
	LanguageTamil,
	LanguageKannada,
}

// DefaultLanguage returns the fallback language when detection yields nothing.
func DefaultLanguage() Language {
	return Languages[0]
}

// ValidLanguage reports whether l is a member of the allow-list.
func ValidLanguage(l Language) bool {
	for _, known := range Languages {
		if l == known {
			return true
		}
	}
	return false
}

// Intent classifies what kind of reply a query is asking for.
type Intent int

const (
	// IntentGreeting marks salutations that short-circuit retrieval.
	IntentGreeting Intent = iota + 1
	// IntentChitchat marks conversational filler with no corpus question.
	IntentChitchat
	// IntentQuestion marks a genuine question against the corpus.
	IntentQuestion
)

// RetrievedChunk is a candidate passage returned by the vector index.
// It is owned exclusively by the request that produced it.
type RetrievedChunk struct {
	ID       string
	Text     string
	Score    float32 // cosine similarity in [0, 1]
	Metadata map[string]string
}

// Chapter returns the chapter number from the chunk metadata, or 0 when the
// chunk carries no chapter tag.
func (c *RetrievedChunk) Chapter() int {
	return chapterFromMetadata(c.Metadata)
}

// RerankedChunk is a RetrievedChunk with a locally computed rerank score.
// Ordering-only artifact, never persisted.
type RerankedChunk struct {
	RetrievedChunk
	RerankScore float32
}

// Chunk is a pre-embedded slice of corpus text stored in the vector index.
type Chunk struct {
	ID       string
	Text     string
	Vector   []float32
	Metadata map[string]string
}

// Chapter returns the chapter number from the chunk metadata, or 0.
func (c *Chunk) Chapter() int {
	return chapterFromMetadata(c.Metadata)
}

func chapterFromMetadata(md map[string]string) int {
	raw, ok := md["chapter"]
	if !ok {
		return 0
	}
	n := 0
	for _, ch := range raw {
		if ch < '0' || ch > '9' {
			return 0
		}
		n = n*10 + int(ch-'0')
	}
	return n
}

// Turn is one user/bot exchange within a session.
type Turn struct {
	Timestamp   time.Time
	UserQuery   string
	BotResponse string
	Language    Language
}

// Role tags a message in a structured conversation history.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one role-tagged entry of the structured history handed to
// generators that accept multi-turn input.
type Message struct {
	Role    Role
	Content string
}

// Outcome names the terminal state a request reached.
type Outcome string

const (
	// OutcomeAnswered means the full retrieval/generation pipeline ran.
	OutcomeAnswered Outcome = "answered"
	// OutcomeGreeting means the greeting short-circuit replied.
	OutcomeGreeting Outcome = "greeting"
	// OutcomeBlocked means a guardrail rejected the query before retrieval.
	OutcomeBlocked Outcome = "blocked"
	// OutcomeNoKnowledge means retrieval found nothing above the gate.
	OutcomeNoKnowledge Outcome = "no_knowledge"
	// OutcomeFallback means generation failed and a canned apology was used.
	OutcomeFallback Outcome = "fallback"
)

// Source is one evidence passage cited by an answer.
type Source struct {
	ID      string
	Text    string
	Score   float32
	Chapter int
}

// Answer is the well-formed response object returned for every request,
// including blocked and no-knowledge outcomes.
type Answer struct {
	Answer     string
	Confidence float32
	Sources    []Source
	SessionID  string
	Language   Language
	Outcome    Outcome
}

// Feedback is a fire-and-forget user rating of a prior answer.
type Feedback struct {
	SessionID string
	Rating    int // 1-5
	Text      string
	Metadata  map[string]string
	Timestamp time.Time
}

// ShouldAskFollowUp reports whether the rating is low enough that the caller
// should solicit free-form feedback text.
func (f *Feedback) ShouldAskFollowUp() bool {
	return f.Rating <= 3
}
