package emotion

import "github.com/empathia-lab/therabot/pkg/domain/types"

// KeywordRule maps a tone to the keywords that indicate it
type KeywordRule struct {
	Tone     types.Tone
	Keywords []string
}

// fallbackRules is the keyword table used when the primary classifier is
// unavailable. Order matters: the keyword sets are not disjoint, and the
// first matching rule wins. The declared priority is angry, sad, worried,
// happy, neutral.
var fallbackRules = []KeywordRule{
	{Tone: types.ToneAngry, Keywords: []string{"angry", "frustrated", "mad", "annoyed", "irritated", "pissed"}},
	{Tone: types.ToneSad, Keywords: []string{"sad", "depressed", "upset", "down", "lonely", "miserable"}},
	{Tone: types.ToneWorried, Keywords: []string{"worried", "anxious", "concern", "nervous", "stressed", "scared"}},
	{Tone: types.ToneHappy, Keywords: []string{"happy", "joy", "excited", "great", "excellent", "good"}},
	{Tone: types.ToneNeutral, Keywords: []string{"think", "consider", "maybe", "perhaps", "wonder", "know", "tell"}},
}

// FallbackRules returns the ordered keyword rules of the fallback classifier
func FallbackRules() []KeywordRule {
	rules := make([]KeywordRule, len(fallbackRules))
	copy(rules, fallbackRules)
	return rules
}
