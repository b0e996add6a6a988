package usecase

import "errors"

// Sentinel errors for the chat use case layer
var (
	// ErrEmptyInput is the only pipeline error surfaced to callers: a blank
	// utterance is rejected before the pipeline starts.
	ErrEmptyInput = errors.New("empty message received")
)

// Context keys for error values
const (
	UserIDKey = "user_id"
)
