package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/stylepanel/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunPanelStoreContract runs a suite of tests to verify that a PanelStore implementation
// adheres to the defined interface contract.
func RunPanelStoreContract(t *testing.T, store PanelStore) {
	ctx := context.Background()
	panelID := "contract-test-panel-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		state := domain.NewPanelState(panelID)
		state.LayerID = "water"
		state.Groups["Paint properties"] = false
		state.Groups["Layer"] = true

		err := store.Save(ctx, panelID, state)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, panelID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, panelID, loaded.PanelID)
		assert.Equal(t, "water", loaded.LayerID)
		assert.Equal(t, map[string]bool{"Paint properties": false, "Layer": true}, loaded.Groups)
	})

	t.Run("Load Returns Isolated Copy", func(t *testing.T) {
		state := domain.NewPanelState(panelID)
		state.Groups["Layer"] = true
		require.NoError(t, store.Save(ctx, panelID, state))

		state.Groups["Layer"] = false

		loaded, err := store.Load(ctx, panelID)
		require.NoError(t, err)
		assert.True(t, loaded.Groups["Layer"], "mutating the saved value must not leak into the store")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+panelID)
		assert.ErrorIs(t, err, domain.ErrPanelNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, panelID, domain.NewPanelState(panelID))
		require.NoError(t, err)

		err = store.Delete(ctx, panelID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, panelID)
		assert.ErrorIs(t, err, domain.ErrPanelNotFound, "Load after Delete should return ErrPanelNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := panelID + "-1"
		id2 := panelID + "-2"
		_ = store.Save(ctx, id1, domain.NewPanelState(id1))
		_ = store.Save(ctx, id2, domain.NewPanelState(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		panels, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, panels, id1)
		assert.Contains(t, panels, id2)
	})
}
