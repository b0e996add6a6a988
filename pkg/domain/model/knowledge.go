package model

import "github.com/empathia-lab/therabot/pkg/domain/types"

// EmbeddingDimension is the dimension of the embedding vector
// Gemini text-embedding-004 uses 768 dimensions
const EmbeddingDimension = 768

// KnowledgeEntry is a single supportive knowledge-base snippet tagged with the
// tone it is most relevant to. Entries are immutable once loaded; the corpus
// is read at startup and never mutated at runtime.
type KnowledgeEntry struct {
	Tone types.Tone `json:"emotion"`
	Text string     `json:"text"`
}

// SeedCorpus returns the minimal hand-authored corpus that is synthesized and
// persisted when no knowledge base exists yet: one entry per classifiable tone.
func SeedCorpus() []KnowledgeEntry {
	return []KnowledgeEntry{
		{Tone: types.ToneHappy, Text: "It's great to hear you're feeling positive!"},
		{Tone: types.ToneSad, Text: "I'm sorry you're feeling down. Remember that it's okay to feel sad, and I'm here to listen."},
		{Tone: types.ToneAngry, Text: "Feeling angry is understandable sometimes. What's causing this frustration for you?"},
		{Tone: types.ToneNeutral, Text: "I see. Tell me more about what's on your mind."},
		{Tone: types.ToneWorried, Text: "It sounds like you're dealing with some worry. Let's talk through it."},
	}
}

// FallbackEntry is the single neutral entry the knowledge store fails open to
// when the corpus cannot be loaded at all.
func FallbackEntry() KnowledgeEntry {
	return KnowledgeEntry{Tone: types.ToneNeutral, Text: "I'm here to help."}
}
