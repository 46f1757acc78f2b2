package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/aretw0/stylepanel/pkg/domain"
)

type nopStore struct{}

func (nopStore) Save(ctx context.Context, panelID string, state *domain.PanelState) error {
	return nil
}
func (nopStore) Load(ctx context.Context, panelID string) (*domain.PanelState, error) {
	return nil, domain.ErrPanelNotFound
}
func (nopStore) Delete(ctx context.Context, panelID string) error { return nil }
func (nopStore) List(ctx context.Context) ([]string, error)       { return nil, nil }

func TestManager_LockLifecycle(t *testing.T) {
	mgr := NewManager(nopStore{})
	ctx := context.Background()
	count := 10000

	for i := 0; i < count; i++ {
		id := fmt.Sprintf("panel-%d", i)
		_ = mgr.Save(ctx, id, domain.NewPanelState(id))
		_ = mgr.Delete(ctx, id)
	}

	if lockCount := len(mgr.locks); lockCount != 0 {
		t.Errorf("Memory Leak Detected: %d locks remaining in memory after Delete", lockCount)
	}
}
