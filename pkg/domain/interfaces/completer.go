package interfaces

import (
	"context"

	"github.com/empathia-lab/therabot/pkg/domain/model"
)

// Completer is the narrow contract to the generative-model collaborator. The
// implementation maps provider-specific refusals to Completion.Blocked so the
// response generator never has to inspect provider errors.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (*model.Completion, error)
}
