package cli

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/stylepanel/internal/logging"
	"github.com/aretw0/stylepanel/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSessions(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	backends := map[string]StoreConfig{
		"memory": {Backend: "memory"},
		"file":   {Backend: "file", Dir: t.TempDir()},
		"redis":  {Backend: "redis", RedisAddr: mr.Addr(), Prefix: "test:", TTL: "1h", LockTTL: "5s"},
	}

	for name, cfg := range backends {
		t.Run(name, func(t *testing.T) {
			sessions, closer, err := OpenSessions(ctx, cfg, logging.NewNop())
			require.NoError(t, err)
			defer closer.Close()

			_, err = sessions.Update(ctx, "p1", func(s *domain.PanelState) error {
				s.Groups["Paint properties"] = false
				return nil
			})
			require.NoError(t, err)

			state, err := sessions.Load(ctx, "p1")
			require.NoError(t, err)
			assert.False(t, state.Groups["Paint properties"])
		})
	}

	assert.True(t, mr.Exists("test:state:p1"))
}

func TestOpenSessions_RedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, _, err := OpenSessions(context.Background(), StoreConfig{Backend: "redis", RedisAddr: addr}, logging.NewNop())
	assert.ErrorContains(t, err, "connecting to redis")
}

func TestLoadSchema(t *testing.T) {
	doc, err := LoadSchema("")
	require.NoError(t, err)
	assert.Contains(t, doc.LayerTypes(), "fill")

	path := writeFile(t, t.TempDir(), "layout.yaml", `
custom:
  groups:
    - title: Layer
      kind: settings
`)
	doc, err = LoadSchema(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"custom"}, doc.LayerTypes())

	_, err = LoadSchema("missing.yaml")
	assert.Error(t, err)
}
