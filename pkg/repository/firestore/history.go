package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/status"

	"github.com/empathia-lab/therabot/pkg/domain/model"
	"github.com/empathia-lab/therabot/pkg/domain/types"
)

const defaultRecentLimit = 50

// chatTurn is the Firestore document representation of model.ChatTurn.
// Tone is stored as a plain string; empty means unclassified.
type chatTurn struct {
	ID        string    `firestore:"ID"`
	Sender    string    `firestore:"Sender"`
	Message   string    `firestore:"Message"`
	Tone      string    `firestore:"Tone,omitempty"`
	CreatedAt time.Time `firestore:"CreatedAt"`
}

type historyRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newHistoryRepository(client *firestore.Client) *historyRepository {
	return &historyRepository{client: client}
}

func (r *historyRepository) turnsCollection(userID types.UserID) *firestore.CollectionRef {
	return r.client.
		Collection(r.collectionPrefix + "chat_users").
		Doc(userID.String()).
		Collection("turns")
}

func (r *historyRepository) Append(ctx context.Context, userID types.UserID, turn *model.ChatTurn) error {
	if turn == nil {
		return goerr.New("turn is required", goerr.V("user_id", userID))
	}

	stored := chatTurn{
		ID:        turn.ID.String(),
		Sender:    turn.Sender.String(),
		Message:   turn.Message,
		CreatedAt: turn.CreatedAt,
	}
	if stored.ID == "" {
		stored.ID = types.NewTurnID().String()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	if turn.Tone != nil {
		stored.Tone = turn.Tone.String()
	}

	ref := r.turnsCollection(userID).Doc(stored.ID)
	if _, err := ref.Set(ctx, stored); err != nil {
		return goerr.Wrap(err, "failed to save chat turn",
			goerr.V("user_id", userID),
			goerr.V("turn_id", stored.ID),
			goerr.V("grpc_code", status.Code(err).String()),
		)
	}
	return nil
}

func (r *historyRepository) Recent(ctx context.Context, userID types.UserID, limit int) ([]*model.ChatTurn, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	iter := r.turnsCollection(userID).
		OrderBy("CreatedAt", firestore.Desc).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	var newestFirst []*model.ChatTurn
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate chat turns",
				goerr.V("user_id", userID),
				goerr.V("grpc_code", status.Code(err).String()),
			)
		}

		var data chatTurn
		if err := doc.DataTo(&data); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal chat turn",
				goerr.V("doc_id", doc.Ref.ID),
			)
		}

		turn := &model.ChatTurn{
			ID:        types.TurnID(data.ID),
			Sender:    types.Sender(data.Sender),
			Message:   data.Message,
			CreatedAt: data.CreatedAt,
		}
		if data.Tone != "" {
			tone := types.Tone(data.Tone)
			turn.Tone = &tone
		}
		newestFirst = append(newestFirst, turn)
	}

	// Query is newest-first for the limit; callers expect oldest-first.
	result := make([]*model.ChatTurn, len(newestFirst))
	for i, t := range newestFirst {
		result[len(newestFirst)-1-i] = t
	}
	return result, nil
}
