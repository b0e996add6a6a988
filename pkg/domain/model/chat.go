package model

import (
	"time"

	"github.com/empathia-lab/therabot/pkg/domain/types"
)

// ChatTurn represents a single message in a conversation. Tone is nil for
// user turns that have not been classified; bot turns always carry the tone
// the pipeline produced (including the escalation marker).
type ChatTurn struct {
	ID        types.TurnID
	Sender    types.Sender
	Message   string
	Tone      *types.Tone
	CreatedAt time.Time
}

// NewChatTurn creates a chat turn with a fresh ID and timestamp
func NewChatTurn(sender types.Sender, message string, tone *types.Tone) *ChatTurn {
	return &ChatTurn{
		ID:        types.NewTurnID(),
		Sender:    sender,
		Message:   message,
		Tone:      tone,
		CreatedAt: time.Now().UTC(),
	}
}

// TonePtr is a convenience helper for building nullable turn tones
func TonePtr(t types.Tone) *types.Tone {
	return &t
}

// Reply is the terminal output of one pipeline invocation
type Reply struct {
	Text     string
	Tone     types.Tone
	Distress bool
}
