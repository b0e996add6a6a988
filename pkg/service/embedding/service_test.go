package embedding_test

import (
	"context"
	"math"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gt"

	"github.com/empathia-lab/therabot/pkg/domain/model"
	"github.com/empathia-lab/therabot/pkg/domain/types"
	"github.com/empathia-lab/therabot/pkg/service/embedding"
)

// mockLLMClient is a gollem LLMClient whose embeddings are a deterministic
// function of the input text.
type mockLLMClient struct {
	embedFn func(ctx context.Context, dimension int, input []string) ([][]float64, error)
}

func (c *mockLLMClient) NewSession(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
	return nil, goerr.New("not implemented")
}

func (c *mockLLMClient) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	if c.embedFn != nil {
		return c.embedFn(ctx, dimension, input)
	}
	result := make([][]float64, len(input))
	for i, text := range input {
		result[i] = deterministicVector(text)
	}
	return result, nil
}

// deterministicVector maps text to a small unit-ish vector derived from its
// rune content, so identical texts always embed identically.
func deterministicVector(text string) []float64 {
	vec := make([]float64, 4)
	for i, r := range text {
		vec[i%4] += float64(r) / 100.0
	}
	return vec
}

func TestService_Encode(t *testing.T) {
	svc, err := embedding.New(&mockLLMClient{})
	gt.NoError(t, err).Required()

	vec, err := svc.Encode(context.Background(), "hello")
	gt.NoError(t, err).Required()
	gt.A(t, vec).Length(4)

	again, err := svc.Encode(context.Background(), "hello")
	gt.NoError(t, err).Required()
	gt.V(t, again).Equal(vec)
}

func TestService_EncodeBatch(t *testing.T) {
	svc, err := embedding.New(&mockLLMClient{})
	gt.NoError(t, err).Required()

	vectors, err := svc.EncodeBatch(context.Background(), []string{"a", "b", "c"})
	gt.NoError(t, err).Required()
	gt.A(t, vectors).Length(3)
}

func TestService_EncodeBatchEmpty(t *testing.T) {
	svc, err := embedding.New(&mockLLMClient{})
	gt.NoError(t, err).Required()

	vectors, err := svc.EncodeBatch(context.Background(), nil)
	gt.NoError(t, err)
	gt.A(t, vectors).Length(0)
}

func TestService_EncodeCountMismatch(t *testing.T) {
	svc, err := embedding.New(&mockLLMClient{
		embedFn: func(ctx context.Context, dimension int, input []string) ([][]float64, error) {
			return [][]float64{{1, 0}}, nil
		},
	})
	gt.NoError(t, err).Required()

	_, err = svc.EncodeBatch(context.Background(), []string{"a", "b"})
	gt.Error(t, err)
}

func TestService_RequiresClient(t *testing.T) {
	_, err := embedding.New(nil)
	gt.Error(t, err)
}

func TestBuildIndex_Partition(t *testing.T) {
	svc, err := embedding.New(&mockLLMClient{})
	gt.NoError(t, err).Required()

	entries := []model.KnowledgeEntry{
		{Tone: types.ToneHappy, Text: "great to hear"},
		{Tone: types.ToneSad, Text: "sorry you feel down"},
		{Tone: types.ToneSad, Text: "it is okay to feel sad"},
	}

	index, err := embedding.BuildIndex(context.Background(), svc, entries)
	gt.NoError(t, err).Required()
	gt.N(t, index.Size()).Equal(3)

	texts, vectors := index.Partition(types.ToneSad)
	gt.A(t, texts).Length(2)
	gt.A(t, vectors).Length(2)
	gt.V(t, texts[0]).Equal("sorry you feel down")

	texts, vectors = index.Partition(types.ToneAngry)
	gt.A(t, texts).Length(0)
	gt.A(t, vectors).Length(0)

	allTexts, allVectors := index.All()
	gt.A(t, allTexts).Length(3)
	gt.A(t, allVectors).Length(3)
}

func TestBuildIndex_Idempotent(t *testing.T) {
	svc, err := embedding.New(&mockLLMClient{})
	gt.NoError(t, err).Required()

	entries := model.SeedCorpus()
	ctx := context.Background()

	first, err := embedding.BuildIndex(ctx, svc, entries)
	gt.NoError(t, err).Required()
	second, err := embedding.BuildIndex(ctx, svc, entries)
	gt.NoError(t, err).Required()

	probe, err := svc.Encode(ctx, "I feel a bit lost today")
	gt.NoError(t, err).Required()

	_, firstVecs := first.All()
	_, secondVecs := second.All()
	for i := range firstVecs {
		a := cosine(probe, firstVecs[i])
		b := cosine(probe, secondVecs[i])
		gt.B(t, math.Abs(a-b) < 1e-9).True()
	}
}

func cosine(a, b []float32) float64 {
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
