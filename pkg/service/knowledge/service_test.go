package knowledge_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/empathia-lab/therabot/pkg/domain/interfaces"
	"github.com/empathia-lab/therabot/pkg/domain/model"
	"github.com/empathia-lab/therabot/pkg/domain/types"
	"github.com/empathia-lab/therabot/pkg/service/knowledge"
)

type mockCorpusStore struct {
	readFn  func(ctx context.Context) ([]model.KnowledgeEntry, error)
	written []model.KnowledgeEntry
}

func (s *mockCorpusStore) Read(ctx context.Context) ([]model.KnowledgeEntry, error) {
	return s.readFn(ctx)
}

func (s *mockCorpusStore) Write(ctx context.Context, entries []model.KnowledgeEntry) error {
	s.written = entries
	return nil
}

func TestLoad_ExistingCorpus(t *testing.T) {
	existing := []model.KnowledgeEntry{
		{Tone: types.ToneWorried, Text: "Let's talk through it."},
	}
	store := &mockCorpusStore{
		readFn: func(ctx context.Context) ([]model.KnowledgeEntry, error) {
			return existing, nil
		},
	}

	entries := knowledge.Load(context.Background(), store)
	gt.A(t, entries).Length(1)
	gt.V(t, entries[0].Tone).Equal(types.ToneWorried)
	gt.A(t, store.written).Length(0)
}

func TestLoad_SeedsWhenMissing(t *testing.T) {
	store := &mockCorpusStore{
		readFn: func(ctx context.Context) ([]model.KnowledgeEntry, error) {
			return nil, goerr.Wrap(interfaces.ErrCorpusNotFound, "missing")
		},
	}

	entries := knowledge.Load(context.Background(), store)
	gt.A(t, entries).Length(len(model.SeedCorpus()))
	gt.A(t, store.written).Length(len(model.SeedCorpus()))
}

func TestLoad_FailsOpenOnError(t *testing.T) {
	store := &mockCorpusStore{
		readFn: func(ctx context.Context) ([]model.KnowledgeEntry, error) {
			return nil, goerr.New("disk exploded")
		},
	}

	entries := knowledge.Load(context.Background(), store)
	gt.A(t, entries).Length(1)
	gt.V(t, entries[0]).Equal(model.FallbackEntry())
}

func TestLoad_SeedWriteFailureStillServes(t *testing.T) {
	store := &failingWriteStore{}

	entries := knowledge.Load(context.Background(), store)
	gt.A(t, entries).Length(len(model.SeedCorpus()))
}

type failingWriteStore struct{}

func (s *failingWriteStore) Read(ctx context.Context) ([]model.KnowledgeEntry, error) {
	return nil, interfaces.ErrCorpusNotFound
}

func (s *failingWriteStore) Write(ctx context.Context, entries []model.KnowledgeEntry) error {
	return goerr.New("read-only filesystem")
}
