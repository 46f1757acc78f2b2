package ports

import (
	"context"

	"github.com/aretw0/stylepanel/pkg/domain"
)

// PanelStore defines the interface for persisting panel UI state.
// It lets a remote client resume a panel with its groups still collapsed.
type PanelStore interface {
	// Save persists the state for a given panel ID.
	Save(ctx context.Context, panelID string, state *domain.PanelState) error

	// Load retrieves the state for a given panel ID.
	// Returns domain.ErrPanelNotFound if the panel does not exist.
	Load(ctx context.Context, panelID string) (*domain.PanelState, error)

	// Delete removes the state for a given panel ID.
	Delete(ctx context.Context, panelID string) error

	// List returns the IDs of all stored panels.
	List(ctx context.Context) ([]string, error)
}
