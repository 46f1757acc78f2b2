package observability

import (
	"log/slog"

	"github.com/aretw0/stylepanel/pkg/domain"
)

// LoggingHooks returns lifecycle hooks that log every event at info level.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnLayerChanged: func(e *domain.LayerEvent) {
			logger.Info("layer_changed",
				"layer_id", e.LayerID,
				"type", e.LayerType,
				"kind", e.Kind,
				"path", e.Path,
			)
		},
		OnLayerRenamed: func(e *domain.RenameEvent) {
			logger.Info("layer_renamed", "old_id", e.OldID, "new_id", e.NewID)
		},
		OnGroupToggled: func(e *domain.ToggleEvent) {
			logger.Info("group_toggled", "title", e.Title, "active", e.Active)
		},
		OnSchemaMiss: func(e *domain.SchemaMissEvent) {
			logger.Warn("schema_miss", "layer_id", e.LayerID, "type", e.LayerType)
		},
	}
}
