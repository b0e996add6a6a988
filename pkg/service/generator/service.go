package generator

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"

	"github.com/empathia-lab/therabot/pkg/domain/interfaces"
	"github.com/empathia-lab/therabot/pkg/domain/model"
)

// blockMarkers are substrings of provider errors that indicate the content
// was refused by a safety filter rather than the call failing outright.
var blockMarkers = []string{
	"safety",
	"blocked",
	"prohibited_content",
}

// Service is the gollem-backed generative-model collaborator
type Service struct {
	llmClient gollem.LLMClient
}

var _ interfaces.Completer = &Service{}

// New creates a new generator service with the provided LLM client
func New(llmClient gollem.LLMClient) (*Service, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}
	return &Service{llmClient: llmClient}, nil
}

// Complete invokes the generative model with the full prompt. Provider
// refusals are reported as Completion.Blocked; an empty response without a
// recognizable block reason comes back as an empty, non-blocked completion.
func (s *Service) Complete(ctx context.Context, systemPrompt, userPrompt string) (*model.Completion, error) {
	session, err := s.llmClient.NewSession(ctx,
		gollem.WithSessionSystemPrompt(systemPrompt),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(userPrompt))
	if err != nil {
		if reason, ok := blockReason(err); ok {
			return &model.Completion{Blocked: true, BlockReason: reason}, nil
		}
		return nil, goerr.Wrap(err, "failed to generate content")
	}

	text := strings.TrimSpace(strings.Join(resp.Texts, "\n"))
	return &model.Completion{Text: text}, nil
}

func blockReason(err error) (string, bool) {
	msg := strings.ToLower(err.Error())
	for _, marker := range blockMarkers {
		if strings.Contains(msg, marker) {
			return err.Error(), true
		}
	}
	return "", false
}
