package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/empathia-lab/therabot/pkg/domain/types"
)

func TestTone_IsValid(t *testing.T) {
	tests := []struct {
		name string
		tone types.Tone
		want bool
	}{
		{name: "happy", tone: types.ToneHappy, want: true},
		{name: "sad", tone: types.ToneSad, want: true},
		{name: "angry", tone: types.ToneAngry, want: true},
		{name: "worried", tone: types.ToneWorried, want: true},
		{name: "neutral", tone: types.ToneNeutral, want: true},
		{name: "concerned marker", tone: types.ToneConcerned, want: true},
		{name: "unknown", tone: types.Tone("ecstatic"), want: false},
		{name: "empty", tone: types.Tone(""), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.want {
				gt.B(t, tt.tone.IsValid()).True()
			} else {
				gt.B(t, tt.tone.IsValid()).False()
			}
		})
	}
}

func TestTone_IsClassifiable(t *testing.T) {
	for _, tone := range types.ClassifiableTones() {
		gt.B(t, tone.IsClassifiable()).
			Describef("tone %s should be classifiable", tone).
			True()
	}

	// The escalation marker is valid but must never come out of classification
	gt.B(t, types.ToneConcerned.IsValid()).True()
	gt.B(t, types.ToneConcerned.IsClassifiable()).False()
}

func TestClassifiableTones(t *testing.T) {
	tones := types.ClassifiableTones()
	gt.A(t, tones).Length(5)

	seen := make(map[types.Tone]bool)
	for _, tone := range tones {
		seen[tone] = true
	}
	gt.B(t, seen[types.ToneConcerned]).False()
}

func TestParseTone(t *testing.T) {
	tone, err := types.ParseTone("worried")
	gt.NoError(t, err)
	gt.V(t, tone).Equal(types.ToneWorried)

	_, err = types.ParseTone("furious")
	gt.Error(t, err)
}

func TestSender(t *testing.T) {
	gt.B(t, types.SenderUser.IsValid()).True()
	gt.B(t, types.SenderBot.IsValid()).True()
	gt.B(t, types.Sender("system").IsValid()).False()

	sender, err := types.ParseSender("bot")
	gt.NoError(t, err)
	gt.V(t, sender).Equal(types.SenderBot)

	_, err = types.ParseSender("")
	gt.Error(t, err)
}

func TestNewTurnID(t *testing.T) {
	a := types.NewTurnID()
	b := types.NewTurnID()
	gt.S(t, a.String()).NotEqual("")
	gt.V(t, a).NotEqual(b)
}
