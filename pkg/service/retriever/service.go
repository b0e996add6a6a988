package retriever

import (
	"context"
	"math"
	"sort"

	"github.com/empathia-lab/therabot/pkg/domain/model"
	"github.com/empathia-lab/therabot/pkg/domain/types"
	"github.com/empathia-lab/therabot/pkg/service/embedding"
	"github.com/empathia-lab/therabot/pkg/utils/logging"
)

const (
	// DefaultTopK is the number of snippets returned per retrieval
	DefaultTopK = 1
	// DefaultThreshold is the minimum cosine similarity for a snippet to be
	// considered relevant
	DefaultThreshold = 0.3
)

// Fixed fallback prompts. The retriever never fails its caller: every error
// and every empty result degrades to one of these.
const (
	FallbackBelowThreshold = "Tell me more about that."
	FallbackEmptyCorpus    = "How does that make you feel?"
	FallbackError          = "I'm here to listen and help you with your concerns."
)

// Service selects the most relevant knowledge snippets for an utterance via
// cosine similarity over the pre-encoded corpus, partitioned by tone.
type Service struct {
	embedder *embedding.Service
	index    *embedding.Index
	defaults []Option
}

// New creates a retriever over the pre-built index. Options given here become
// the service defaults; per-call options still override them.
func New(embedder *embedding.Service, index *embedding.Index, opts ...Option) *Service {
	return &Service{
		embedder: embedder,
		index:    index,
		defaults: opts,
	}
}

type options struct {
	topK      int
	threshold float64
}

type Option func(*options)

// WithTopK overrides the number of snippets to return
func WithTopK(k int) Option {
	return func(o *options) {
		o.topK = k
	}
}

// WithThreshold overrides the minimum similarity score
func WithThreshold(threshold float64) Option {
	return func(o *options) {
		o.threshold = threshold
	}
}

// Retrieve returns the top-k snippets for the utterance, searched within the
// tone partition of the corpus (or the full corpus when the partition is
// empty). Results below the similarity threshold are replaced by a fixed
// generic prompt, and any failure along the way degrades to a fixed fallback.
func (s *Service) Retrieve(ctx context.Context, utterance string, tone types.Tone, opts ...Option) model.RetrievalResult {
	opt := options{
		topK:      DefaultTopK,
		threshold: DefaultThreshold,
	}
	for _, o := range s.defaults {
		o(&opt)
	}
	for _, o := range opts {
		o(&opt)
	}

	texts, vectors := s.index.Partition(tone)
	if len(texts) == 0 {
		texts, vectors = s.index.All()
	}
	if len(texts) == 0 {
		return fallbackResult(FallbackEmptyCorpus)
	}

	utteranceVec, err := s.embedder.Encode(ctx, utterance)
	if err != nil {
		logging.From(ctx).Warn("failed to encode utterance, using retrieval fallback",
			"error", err.Error(),
			"tone", tone,
		)
		return fallbackResult(FallbackError)
	}

	scored := make([]model.Snippet, len(texts))
	for i := range texts {
		scored[i] = model.Snippet{
			Text:  texts[i],
			Score: cosineSimilarity(utteranceVec, vectors[i]),
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	topK := opt.topK
	if topK > len(scored) {
		topK = len(scored)
	}

	var selected []model.Snippet
	for _, snippet := range scored[:topK] {
		if snippet.Score >= opt.threshold {
			selected = append(selected, snippet)
		}
	}
	if len(selected) == 0 {
		return fallbackResult(FallbackBelowThreshold)
	}

	return model.RetrievalResult{Snippets: selected}
}

func fallbackResult(text string) model.RetrievalResult {
	return model.RetrievalResult{
		Snippets: []model.Snippet{{Text: text}},
		Fallback: true,
	}
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 0
	}

	return dot / denom
}
