package ports

import (
	"context"
	"time"
)

// ReleaseFunc gives a panel lock back. It is safe to call after the lock expired.
type ReleaseFunc func(ctx context.Context) error

// PanelLocker serializes read-modify-write cycles on one panel across
// processes that share a PanelStore.
type PanelLocker interface {
	// Lock blocks until the lock on panelID is held or ctx is done. The lock
	// expires after ttl if the holder never releases it.
	Lock(ctx context.Context, panelID string, ttl time.Duration) (ReleaseFunc, error)
}
