package types

import "fmt"

// Tone represents the emotional tone attached to an utterance or response
type Tone string

const (
	ToneHappy   Tone = "happy"
	ToneSad     Tone = "sad"
	ToneAngry   Tone = "angry"
	ToneWorried Tone = "worried"
	ToneNeutral Tone = "neutral"

	// ToneConcerned is the escalation marker applied to a turn when distress
	// keywords are detected. It is never produced by classification.
	ToneConcerned Tone = "concerned"
)

// ClassifiableTones returns the closed set of tones the classifier may yield
func ClassifiableTones() []Tone {
	return []Tone{
		ToneHappy,
		ToneSad,
		ToneAngry,
		ToneWorried,
		ToneNeutral,
	}
}

// AllTones returns all valid tones including the escalation marker
func AllTones() []Tone {
	return append(ClassifiableTones(), ToneConcerned)
}

// IsValid checks if the tone is valid
func (t Tone) IsValid() bool {
	switch t {
	case ToneHappy,
		ToneSad,
		ToneAngry,
		ToneWorried,
		ToneNeutral,
		ToneConcerned:
		return true
	default:
		return false
	}
}

// IsClassifiable checks if the tone belongs to the classification set.
// The escalation marker is valid but not classifiable.
func (t Tone) IsClassifiable() bool {
	switch t {
	case ToneHappy,
		ToneSad,
		ToneAngry,
		ToneWorried,
		ToneNeutral:
		return true
	default:
		return false
	}
}

// String returns the string representation of the tone
func (t Tone) String() string {
	return string(t)
}

// ParseTone parses a string into a Tone
func ParseTone(s string) (Tone, error) {
	tone := Tone(s)
	if !tone.IsValid() {
		return "", fmt.Errorf("invalid tone: %s", s)
	}
	return tone, nil
}
