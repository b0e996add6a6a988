package model

// Completion is the result of one generative-model call. Blocked indicates
// the model refused to produce output (safety filter); Text is empty in that
// case and BlockReason holds the model-reported reason when available.
type Completion struct {
	Text        string
	Blocked     bool
	BlockReason string
}
