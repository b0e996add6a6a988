package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/empathia-lab/therabot/pkg/domain/model"
	"github.com/empathia-lab/therabot/pkg/domain/types"
)

const defaultRecentLimit = 50

type historyRepository struct {
	mu    sync.RWMutex
	turns map[types.UserID][]*model.ChatTurn
}

func newHistoryRepository() *historyRepository {
	return &historyRepository{
		turns: make(map[types.UserID][]*model.ChatTurn),
	}
}

// copyTurn creates a deep copy of a chat turn
func copyTurn(t *model.ChatTurn) *model.ChatTurn {
	copied := &model.ChatTurn{
		ID:        t.ID,
		Sender:    t.Sender,
		Message:   t.Message,
		CreatedAt: t.CreatedAt,
	}
	if t.Tone != nil {
		tone := *t.Tone
		copied.Tone = &tone
	}
	return copied
}

func (r *historyRepository) Append(ctx context.Context, userID types.UserID, turn *model.ChatTurn) error {
	if turn == nil {
		return goerr.New("turn is required", goerr.V("user_id", userID))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := copyTurn(turn)
	if stored.ID == "" {
		stored.ID = types.NewTurnID()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}

	r.turns[userID] = append(r.turns[userID], stored)
	return nil
}

func (r *historyRepository) Recent(ctx context.Context, userID types.UserID, limit int) ([]*model.ChatTurn, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	all := r.turns[userID]
	start := len(all) - limit
	if start < 0 {
		start = 0
	}

	result := make([]*model.ChatTurn, 0, len(all)-start)
	for _, t := range all[start:] {
		result = append(result, copyTurn(t))
	}
	return result, nil
}
