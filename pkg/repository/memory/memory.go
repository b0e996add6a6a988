package memory

import (
	"github.com/empathia-lab/therabot/pkg/domain/interfaces"
)

// Memory is an in-memory Repository implementation for development and tests
type Memory struct {
	history *historyRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		history: newHistoryRepository(),
	}
}

func (m *Memory) History() interfaces.HistoryRepository {
	return m.history
}

func (m *Memory) Close() error {
	return nil
}
