package interfaces

import (
	"context"

	"github.com/empathia-lab/therabot/pkg/domain/model"
	"github.com/empathia-lab/therabot/pkg/domain/types"
)

// HistoryRepository defines the interface for chat history persistence
type HistoryRepository interface {
	// Append stores one new turn for the user
	Append(ctx context.Context, userID types.UserID, turn *model.ChatTurn) error

	// Recent retrieves the most recent turns for the user, returned
	// oldest-first. limit <= 0 applies the default window.
	Recent(ctx context.Context, userID types.UserID, limit int) ([]*model.ChatTurn, error)
}
