package usecase

import (
	"github.com/empathia-lab/therabot/pkg/domain/interfaces"
	"github.com/empathia-lab/therabot/pkg/service/emotion"
	"github.com/empathia-lab/therabot/pkg/service/retriever"
)

const defaultHistoryLimit = 20

// ChatUseCase orchestrates a full conversational turn: distress screening,
// emotion classification, corpus retrieval, prompt assembly, generation, and
// history persistence.
type ChatUseCase struct {
	repo         interfaces.Repository
	classifier   *emotion.Classifier
	retriever    *retriever.Service
	completer    interfaces.Completer
	historyLimit int
}

type Option func(*ChatUseCase)

// WithCompleter attaches a generative backend. Without one the use case
// still runs, answering every turn with a fixed degraded reply.
func WithCompleter(c interfaces.Completer) Option {
	return func(uc *ChatUseCase) {
		uc.completer = c
	}
}

func WithHistoryLimit(n int) Option {
	return func(uc *ChatUseCase) {
		if n > 0 {
			uc.historyLimit = n
		}
	}
}

func New(repo interfaces.Repository, classifier *emotion.Classifier, rt *retriever.Service, opts ...Option) *ChatUseCase {
	uc := &ChatUseCase{
		repo:         repo,
		classifier:   classifier,
		retriever:    rt,
		historyLimit: defaultHistoryLimit,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}
