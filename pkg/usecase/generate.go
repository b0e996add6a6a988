package usecase

import (
	"context"
	"strings"

	"github.com/empathia-lab/therabot/pkg/utils/logging"
)

// Fixed degraded-path responses. The generator converts every failure mode to
// one of these; it never propagates an error to the orchestrator.
const (
	replyModelUnavailable = "Sorry, I encountered an issue. Please try again later."
	replyBlocked          = "I cannot respond to that request as it may violate safety guidelines."
	replyNoContent        = "I'm having trouble formulating a response right now. Could you try rephrasing?"
	replyEmptyAfterClean  = "I'm listening. Could you elaborate a bit?"
	replyDegraded         = "I understand. Please know I'm here to listen, but I encountered an issue processing your request."
)

// generate invokes the generative model and sanitizes its output. The chain
// is: blocked content → fixed apology; strip persona preamble echo; strip the
// template marker; empty remainder → fixed clarifying question.
func (uc *ChatUseCase) generate(ctx context.Context, systemPrompt, userPrompt string) string {
	if uc.completer == nil {
		return replyModelUnavailable
	}

	completion, err := uc.completer.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		logging.From(ctx).Error("generative model call failed", "error", err.Error())
		return replyDegraded
	}

	if completion.Blocked {
		logging.From(ctx).Warn("generative model blocked content", "reason", completion.BlockReason)
		return replyBlocked
	}

	text := strings.TrimSpace(completion.Text)
	if text == "" {
		return replyNoContent
	}

	// Some models echo the system prompt or the prompt template tail back
	// verbatim; both are stripped before the reply is returned.
	text = strings.ReplaceAll(text, systemPrompt, "")
	if idx := strings.LastIndex(text, responseMarker); idx >= 0 {
		text = text[idx+len(responseMarker):]
	}
	text = strings.TrimSpace(text)

	if text == "" {
		return replyEmptyAfterClean
	}
	return text
}
