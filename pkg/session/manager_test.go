package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/stylepanel/pkg/adapters/memory"
	"github.com/aretw0/stylepanel/pkg/domain"
	"github.com/aretw0/stylepanel/pkg/ports"
	"github.com/aretw0/stylepanel/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SlowStore simulates latency to provoke race conditions if locking is missing.
type SlowStore struct {
	data map[string]*domain.PanelState
	mu   sync.Mutex
}

func (s *SlowStore) Save(ctx context.Context, panelID string, state *domain.PanelState) error {
	time.Sleep(5 * time.Millisecond) // Simulate IO
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		s.data = make(map[string]*domain.PanelState)
	}
	s.data[panelID] = state.Copy()
	return nil
}

func (s *SlowStore) Load(ctx context.Context, panelID string) (*domain.PanelState, error) {
	time.Sleep(5 * time.Millisecond) // Simulate IO
	s.mu.Lock()
	defer s.mu.Unlock()

	if state, ok := s.data[panelID]; ok {
		return state.Copy(), nil
	}
	return nil, domain.ErrPanelNotFound
}

func (s *SlowStore) Delete(ctx context.Context, panelID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, panelID)
	return nil
}

func (s *SlowStore) List(ctx context.Context) ([]string, error) {
	return nil, nil
}

func TestManager_UpdateIsSerialized(t *testing.T) {
	store := &SlowStore{}
	manager := session.NewManager(store)
	ctx := context.Background()
	id := "race-test"

	titles := []string{"Layer", "Source", "Paint", "Layout", "JSON", "Zoom", "Text", "Icon"}

	var wg sync.WaitGroup
	for _, title := range titles {
		wg.Add(1)
		go func(title string) {
			defer wg.Done()
			_, err := manager.Update(ctx, id, func(s *domain.PanelState) error {
				s.Groups[title] = false
				return nil
			})
			assert.NoError(t, err)
		}(title)
	}
	wg.Wait()

	// Without the per-panel lock, concurrent read-modify-write cycles lose updates.
	state, err := manager.Load(ctx, id)
	require.NoError(t, err)
	assert.Len(t, state.Groups, len(titles))
}

func TestManager_UpdateErrorSkipsSave(t *testing.T) {
	store := memory.NewStore()
	manager := session.NewManager(store)
	ctx := context.Background()
	boom := errors.New("boom")

	_, err := manager.Update(ctx, "p1", func(s *domain.PanelState) error {
		s.Groups["Layer"] = false
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = store.Load(ctx, "p1")
	assert.ErrorIs(t, err, domain.ErrPanelNotFound)
}

func TestManager_LoadOrStart(t *testing.T) {
	store := &SlowStore{}
	manager := session.NewManager(store)
	ctx := context.Background()
	id := "atomic-init"

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			state, err := manager.LoadOrStart(ctx, id)
			assert.NoError(t, err)
			assert.NotNil(t, state)
		}()
	}
	wg.Wait()

	state, err := manager.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, state.PanelID)
	assert.Empty(t, state.Groups)
}

type fakeLocker struct {
	mu       sync.Mutex
	keys     []string
	ttl      time.Duration
	unlocked int
}

func (f *fakeLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.ReleaseFunc, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, key)
	f.ttl = ttl
	return func(context.Context) error {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.unlocked++
		return nil
	}, nil
}

func TestManager_DistributedLock(t *testing.T) {
	locker := &fakeLocker{}
	manager := session.NewManager(memory.NewStore(), session.WithLocker(locker), session.WithLockTTL(5*time.Second))

	require.NoError(t, manager.Save(context.Background(), "p1", domain.NewPanelState("p1")))

	assert.Equal(t, []string{"p1"}, locker.keys)
	assert.Equal(t, 5*time.Second, locker.ttl)
	assert.Equal(t, 1, locker.unlocked)
}
