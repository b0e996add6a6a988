package knowledge

import (
	"context"
	"errors"

	"github.com/empathia-lab/therabot/pkg/domain/interfaces"
	"github.com/empathia-lab/therabot/pkg/domain/model"
	"github.com/empathia-lab/therabot/pkg/utils/logging"
)

// Load returns the knowledge corpus, synthesizing and persisting the seed
// corpus when none exists yet. It fails open: any load error yields the single
// neutral fallback entry instead of propagating — the pipeline must always be
// able to retrieve something.
func Load(ctx context.Context, store interfaces.CorpusStore) []model.KnowledgeEntry {
	logger := logging.From(ctx)

	entries, err := store.Read(ctx)
	if err == nil {
		logger.Info("loaded knowledge corpus", "entries", len(entries))
		return entries
	}

	if errors.Is(err, interfaces.ErrCorpusNotFound) {
		seed := model.SeedCorpus()
		if writeErr := store.Write(ctx, seed); writeErr != nil {
			// Seed persistence is best-effort; the in-memory seed still serves.
			logger.Warn("failed to persist seed corpus", "error", writeErr.Error())
		} else {
			logger.Info("knowledge corpus not found, created seed corpus", "entries", len(seed))
		}
		return seed
	}

	logger.Error("failed to load knowledge corpus, using fallback entry", "error", err.Error())
	return []model.KnowledgeEntry{model.FallbackEntry()}
}
