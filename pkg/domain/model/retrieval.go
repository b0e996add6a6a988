package model

// Snippet is one retrieved knowledge text with its cosine similarity score
// against the utterance. Fallback snippets carry a zero score.
type Snippet struct {
	Text  string
	Score float64
}

// RetrievalResult is an ordered sequence of snippets, ranked descending by
// score and truncated to the top-k above the retriever's threshold.
type RetrievalResult struct {
	Snippets []Snippet
	// Fallback is true when no corpus snippet cleared the threshold and the
	// result holds a fixed generic prompt instead of knowledge-base content.
	Fallback bool
}

// Texts returns the snippet texts in rank order
func (r RetrievalResult) Texts() []string {
	texts := make([]string, len(r.Snippets))
	for i, s := range r.Snippets {
		texts[i] = s.Text
	}
	return texts
}
