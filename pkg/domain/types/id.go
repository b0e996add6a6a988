package types

import "github.com/google/uuid"

// UserID identifies an end user of the chat. The value is owned by the
// surrounding application (session layer); the pipeline treats it as opaque.
type UserID string

// String returns the string representation of the user ID
func (id UserID) String() string {
	return string(id)
}

// TurnID is a UUID v7 identifier for a chat turn. V7 keeps IDs
// chronologically sortable within a conversation.
type TurnID string

// NewTurnID generates a new TurnID
func NewTurnID() TurnID {
	return TurnID(uuid.Must(uuid.NewV7()).String())
}

// String returns the string representation of the turn ID
func (id TurnID) String() string {
	return string(id)
}
