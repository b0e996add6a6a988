package interfaces

import (
	"context"
	"errors"

	"github.com/empathia-lab/therabot/pkg/domain/model"
)

// ErrCorpusNotFound is returned by CorpusStore.Read when no corpus has been
// persisted yet. The knowledge store reacts by synthesizing the seed corpus.
var ErrCorpusNotFound = errors.New("knowledge corpus not found")

// CorpusStore defines the interface for knowledge corpus persistence
type CorpusStore interface {
	// Read loads the persisted corpus. Returns ErrCorpusNotFound when the
	// corpus does not exist.
	Read(ctx context.Context) ([]model.KnowledgeEntry, error)

	// Write persists the corpus, replacing any previous content
	Write(ctx context.Context, entries []model.KnowledgeEntry) error
}
