package embedding

import (
	"context"

	"github.com/m-mizutani/goerr/v2"

	"github.com/empathia-lab/therabot/pkg/domain/model"
	"github.com/empathia-lab/therabot/pkg/domain/types"
)

// Index holds the corpus entries together with their pre-computed embedding
// vectors. It is built once at startup and read-only afterwards, so it can be
// shared by concurrent pipeline invocations without locking. Per-tone vector
// subsets are cached here as well: the corpus is immutable, so a startup-time
// partition is always current.
type Index struct {
	entries []model.KnowledgeEntry
	vectors [][]float32
	byTone  map[types.Tone][]int
}

// BuildIndex encodes all corpus entries and builds the tone partitions.
// An encoding failure here is fatal to startup; there is no per-request
// fallback for a corpus that was never encoded.
func BuildIndex(ctx context.Context, svc *Service, entries []model.KnowledgeEntry) (*Index, error) {
	texts := make([]string, len(entries))
	for i, entry := range entries {
		texts[i] = entry.Text
	}

	var vectors [][]float32
	if len(texts) > 0 {
		var err error
		vectors, err = svc.EncodeBatch(ctx, texts)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to encode knowledge corpus",
				goerr.V("entries", len(entries)),
			)
		}
	}

	byTone := make(map[types.Tone][]int)
	for i, entry := range entries {
		byTone[entry.Tone] = append(byTone[entry.Tone], i)
	}

	return &Index{
		entries: entries,
		vectors: vectors,
		byTone:  byTone,
	}, nil
}

// EmptyIndex returns an index with no entries. Retrieval over it always
// degrades to the empty-corpus fallback without touching the embedder.
func EmptyIndex() *Index {
	return &Index{byTone: make(map[types.Tone][]int)}
}

// Size returns the number of corpus entries
func (ix *Index) Size() int {
	return len(ix.entries)
}

// All returns every corpus text with its vector
func (ix *Index) All() ([]string, [][]float32) {
	texts := make([]string, len(ix.entries))
	for i, entry := range ix.entries {
		texts[i] = entry.Text
	}
	return texts, ix.vectors
}

// Partition returns the texts and vectors for entries tagged with the given
// tone. Both slices are empty when the corpus has no entry for the tone.
func (ix *Index) Partition(tone types.Tone) ([]string, [][]float32) {
	indices := ix.byTone[tone]
	texts := make([]string, len(indices))
	vectors := make([][]float32, len(indices))
	for i, idx := range indices {
		texts[i] = ix.entries[idx].Text
		vectors[i] = ix.vectors[idx]
	}
	return texts, vectors
}
