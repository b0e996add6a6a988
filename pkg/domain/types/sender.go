package types

import "fmt"

// Sender represents who produced a chat turn
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// IsValid checks if the sender is valid
func (s Sender) IsValid() bool {
	switch s {
	case SenderUser, SenderBot:
		return true
	default:
		return false
	}
}

// String returns the string representation of the sender
func (s Sender) String() string {
	return string(s)
}

// ParseSender parses a string into a Sender
func ParseSender(s string) (Sender, error) {
	sender := Sender(s)
	if !sender.IsValid() {
		return "", fmt.Errorf("invalid sender: %s", s)
	}
	return sender, nil
}
