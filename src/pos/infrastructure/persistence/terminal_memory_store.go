package persistence

import (
	"context"
	"sync"

	"pos/src/pos/domain/entity"
	"pos/src/pos/domain/port"
)

// TerminalMemoryStore fallback en memoria cuando no hay Redis (se pierde al reiniciar)
type TerminalMemoryStore struct {
	selections map[string]entity.TerminalSelection
	mu         sync.RWMutex
}

func NewTerminalMemoryStore() port.TerminalStore {
	return &TerminalMemoryStore{selections: make(map[string]entity.TerminalSelection)}
}

func (s *TerminalMemoryStore) Load(_ context.Context, operatorID string) (*entity.TerminalSelection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	selection, ok := s.selections[operatorID]
	if !ok {
		return nil, nil
	}
	return &selection, nil
}

func (s *TerminalMemoryStore) Save(_ context.Context, selection *entity.TerminalSelection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selections[selection.OperatorID] = *selection
	return nil
}

func (s *TerminalMemoryStore) Delete(_ context.Context, operatorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.selections, operatorID)
	return nil
}
