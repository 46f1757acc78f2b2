package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/stylepanel/pkg/domain"
)

// Store implements ports.PanelStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.PanelState
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.PanelState),
	}
}

// Save stores a copy of the state.
func (s *Store) Save(ctx context.Context, panelID string, state *domain.PanelState) error {
	copied := state.Copy()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[panelID] = copied
	return nil
}

// Load returns a copy so callers can't mutate the stored state.
func (s *Store) Load(ctx context.Context, panelID string) (*domain.PanelState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.data[panelID]
	if !ok {
		return nil, domain.ErrPanelNotFound
	}
	return state.Copy(), nil
}

// Delete removes the state.
func (s *Store) Delete(ctx context.Context, panelID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, panelID)
	return nil
}

// List returns the stored panel IDs in sorted order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	panels := make([]string, 0, len(s.data))
	for id := range s.data {
		panels = append(panels, id)
	}
	sort.Strings(panels)
	return panels, nil
}
