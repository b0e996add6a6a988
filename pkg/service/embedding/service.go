package embedding

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"

	"github.com/empathia-lab/therabot/pkg/domain/model"
)

// Service converts text into fixed-dimension embedding vectors through the
// LLM collaborator. It is stateless; corpus vectors are cached in Index.
type Service struct {
	llmClient gollem.LLMClient
}

// New creates a new embedding service with the provided LLM client
func New(llmClient gollem.LLMClient) (*Service, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}
	return &Service{llmClient: llmClient}, nil
}

// Encode generates the embedding vector for a single text
func (s *Service) Encode(ctx context.Context, text string) ([]float32, error) {
	vectors, err := s.EncodeBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EncodeBatch generates embedding vectors for multiple texts in one call
func (s *Service) EncodeBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	embeddings, err := s.llmClient.GenerateEmbedding(ctx, model.EmbeddingDimension, texts)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate embeddings",
			goerr.V("count", len(texts)),
		)
	}
	if len(embeddings) != len(texts) {
		return nil, goerr.New("embedding count mismatch",
			goerr.V("expected", len(texts)),
			goerr.V("actual", len(embeddings)),
		)
	}

	vectors := make([][]float32, len(embeddings))
	for i, emb := range embeddings {
		if len(emb) == 0 {
			return nil, goerr.New("empty embedding returned", goerr.V("index", i))
		}
		vec := make([]float32, len(emb))
		for j, v := range emb {
			vec[j] = float32(v)
		}
		vectors[i] = vec
	}

	return vectors, nil
}
