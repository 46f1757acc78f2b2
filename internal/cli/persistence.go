package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/stylepanel/internal/adapters/file"
	"github.com/aretw0/stylepanel/pkg/adapters/memory"
	"github.com/aretw0/stylepanel/pkg/adapters/redis"
	"github.com/aretw0/stylepanel/pkg/ports"
	"github.com/aretw0/stylepanel/pkg/schema"
	"github.com/aretw0/stylepanel/pkg/session"
)

// pingTimeout bounds the startup check of the redis backend.
const pingTimeout = 3 * time.Second

// OpenSessions builds the session manager for the configured backend.
// The returned closer releases backend connections.
func OpenSessions(ctx context.Context, cfg StoreConfig, logger *slog.Logger) (*session.Manager, io.Closer, error) {
	var (
		store  ports.PanelStore
		closer io.Closer = nopCloser{}
	)
	opts := []session.Option{session.WithLogger(logger)}

	lockTTL, err := cfg.lockTTL()
	if err != nil {
		return nil, nil, err
	}
	if lockTTL > 0 {
		opts = append(opts, session.WithLockTTL(lockTTL))
	}

	switch cfg.Backend {
	case "memory":
		store = memory.NewStore()
	case "", "file":
		store = file.New(cfg.Dir)
	case "redis":
		ttl, err := cfg.ttl()
		if err != nil {
			return nil, nil, err
		}
		prefix := cfg.Prefix
		if prefix == "" {
			prefix = redis.DefaultPrefix
		}
		rs := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, redis.WithTTL(ttl), redis.WithPrefix(prefix))

		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		if err := rs.Client().Ping(pingCtx).Err(); err != nil {
			_ = rs.Close()
			return nil, nil, fmt.Errorf("connecting to redis at %s: %w", cfg.RedisAddr, err)
		}

		store, closer = rs, rs
		// Serialize panels across processes sharing the same redis.
		opts = append(opts, session.WithLocker(redis.NewLocker(rs.Client(), prefix+"lock:")))
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}

	logger.Debug("Panel store ready", "backend", cfg.Backend)
	return session.NewManager(store, opts...), closer, nil
}

// LoadSchema reads the schema document at path, or the built-in layout.
func LoadSchema(path string) (*schema.Document, error) {
	doc, err := schema.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}
	return doc, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
