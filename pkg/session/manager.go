package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"log/slog"

	"github.com/aretw0/stylepanel/internal/logging"
	"github.com/aretw0/stylepanel/pkg/domain"
	"github.com/aretw0/stylepanel/pkg/ports"
)

// DefaultLockTTL bounds how long a distributed panel lock may be held.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager serializes access to panel states, one lock per panel ID.
// Lock entries are reference counted and dropped once unused.
type Manager struct {
	store ports.PanelStore

	mu    sync.Mutex            // guards locks
	locks map[string]*lockEntry // active locks by panel ID

	locker  ports.PanelLocker // optional, for multi-replica deployments
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.PanelLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the TTL of distributed locks.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a Manager over the given store.
func NewManager(store ports.PanelStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller must lock entry.mu and call release(panelID) after unlocking.
func (m *Manager) acquire(panelID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[panelID]
	if !exists {
		entry = &lockEntry{}
		m.locks[panelID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry at zero.
func (m *Manager) release(panelID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[panelID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, panelID)
	}
}

// Load retrieves an existing panel state.
func (m *Manager) Load(ctx context.Context, panelID string) (*domain.PanelState, error) {
	var state *domain.PanelState
	err := m.WithLock(ctx, panelID, func(ctx context.Context) error {
		var err error
		state, err = m.store.Load(ctx, panelID)
		return err
	})
	return state, err
}

// LoadOrStart loads a panel state, creating and persisting an empty one
// when the panel is unknown.
func (m *Manager) LoadOrStart(ctx context.Context, panelID string) (*domain.PanelState, error) {
	var state *domain.PanelState
	err := m.WithLock(ctx, panelID, func(ctx context.Context) error {
		var err error
		state, err = m.store.Load(ctx, panelID)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrPanelNotFound) {
			return fmt.Errorf("failed to check panel existence: %w", err)
		}

		state = domain.NewPanelState(panelID)
		// Persist immediately to reserve the ID
		if err := m.store.Save(ctx, panelID, state); err != nil {
			return fmt.Errorf("failed to initialize panel: %w", err)
		}
		return nil
	})
	return state, err
}

// Update runs a read-modify-write cycle on a panel state under its lock.
// Unknown panels start empty. The state is saved only when fn succeeds.
func (m *Manager) Update(ctx context.Context, panelID string, fn func(*domain.PanelState) error) (*domain.PanelState, error) {
	var state *domain.PanelState
	err := m.WithLock(ctx, panelID, func(ctx context.Context) error {
		var err error
		state, err = m.loadOrNew(ctx, panelID)
		if err != nil {
			return err
		}
		if err := fn(state); err != nil {
			return err
		}
		return m.store.Save(ctx, panelID, state)
	})
	if err != nil {
		return nil, err
	}
	return state, nil
}

func (m *Manager) loadOrNew(ctx context.Context, panelID string) (*domain.PanelState, error) {
	state, err := m.store.Load(ctx, panelID)
	if err == nil {
		return state, nil
	}
	if !errors.Is(err, domain.ErrPanelNotFound) {
		return nil, fmt.Errorf("failed to check panel existence: %w", err)
	}
	return domain.NewPanelState(panelID), nil
}

// Save persists the panel state.
func (m *Manager) Save(ctx context.Context, panelID string, state *domain.PanelState) error {
	return m.WithLock(ctx, panelID, func(ctx context.Context) error {
		return m.store.Save(ctx, panelID, state)
	})
}

// Delete removes the panel state.
func (m *Manager) Delete(ctx context.Context, panelID string) error {
	return m.WithLock(ctx, panelID, func(ctx context.Context) error {
		return m.store.Delete(ctx, panelID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying panel store.
func (m *Manager) Store() ports.PanelStore {
	return m.store
}

// WithLock executes fn while holding the lock for the panel.
func (m *Manager) WithLock(ctx context.Context, panelID string, fn func(context.Context) error) error {
	entry := m.acquire(panelID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(panelID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, panelID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"panel_id", panelID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
