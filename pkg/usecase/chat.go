package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/empathia-lab/therabot/pkg/domain/model"
	"github.com/empathia-lab/therabot/pkg/domain/types"
	"github.com/empathia-lab/therabot/pkg/service/guard"
	"github.com/empathia-lab/therabot/pkg/utils/logging"
)

// exitCommands end the session immediately, without persistence or any model
// call.
var exitCommands = map[string]struct{}{
	"exit": {},
	"quit": {},
}

const (
	replySessionEnded = "Chat session ended."
	greetingFormat    = "Hello %s, welcome! How are you feeling today?"
)

// HandleMessage runs one full conversational turn. The only error it returns
// is ErrEmptyInput for a blank utterance; every downstream failure degrades
// into a fixed reply so the user always gets an answer.
func (uc *ChatUseCase) HandleMessage(ctx context.Context, userID types.UserID, displayName, message string) (*model.Reply, error) {
	logger := logging.From(ctx).With("user_id", userID)
	ctx = logging.With(ctx, logger)

	utterance := strings.TrimSpace(message)
	if utterance == "" {
		return nil, goerr.Wrap(ErrEmptyInput, "message is blank", goerr.V(UserIDKey, userID))
	}

	if _, ok := exitCommands[strings.ToLower(utterance)]; ok {
		return &model.Reply{Text: replySessionEnded, Tone: types.ToneNeutral}, nil
	}

	distress := guard.Scan(utterance)

	uc.persist(ctx, userID, model.NewChatTurn(types.SenderUser, utterance, nil))

	tone := uc.classifier.Classify(ctx, utterance)

	retrieval := uc.retriever.Retrieve(ctx, utterance, tone)
	logger.Debug("retrieval complete",
		"tone", tone,
		"snippets", len(retrieval.Snippets),
		"fallback", retrieval.Fallback,
	)

	text := uc.generate(ctx, renderSystemPrompt(displayName), buildUserPrompt(utterance, tone, retrieval.Texts()))

	reply := &model.Reply{Text: text, Tone: tone}
	if distress {
		guard.Overlay(reply)
	}

	uc.persist(ctx, userID, model.NewChatTurn(types.SenderBot, reply.Text, model.TonePtr(reply.Tone)))

	return reply, nil
}

// Greeting returns the session opener, recorded as a bot turn only when the
// user has no prior history.
func (uc *ChatUseCase) Greeting(ctx context.Context, userID types.UserID, displayName string) (*model.Reply, error) {
	turns, err := uc.repo.History().Recent(ctx, userID, 1)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to check history for greeting", goerr.V(UserIDKey, userID))
	}

	reply := &model.Reply{
		Text: greeting(displayName),
		Tone: types.ToneNeutral,
	}
	if len(turns) == 0 {
		uc.persist(ctx, userID, model.NewChatTurn(types.SenderBot, reply.Text, model.TonePtr(reply.Tone)))
	}
	return reply, nil
}

func greeting(displayName string) string {
	name := strings.TrimSpace(displayName)
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf(greetingFormat, name)
}

// RecentTurns returns the user's history window, oldest-first.
func (uc *ChatUseCase) RecentTurns(ctx context.Context, userID types.UserID, limit int) ([]*model.ChatTurn, error) {
	if limit <= 0 {
		limit = uc.historyLimit
	}
	turns, err := uc.repo.History().Recent(ctx, userID, limit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load chat history", goerr.V(UserIDKey, userID))
	}
	return turns, nil
}

// persist stores a turn and logs failures without interrupting the pipeline
func (uc *ChatUseCase) persist(ctx context.Context, userID types.UserID, turn *model.ChatTurn) {
	if err := uc.repo.History().Append(ctx, userID, turn); err != nil {
		logging.From(ctx).Error("failed to persist chat turn",
			"sender", turn.Sender,
			"error", err.Error(),
		)
	}
}
