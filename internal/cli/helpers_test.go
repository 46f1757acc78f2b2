package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterruptContext_Stop(t *testing.T) {
	ic := WithInterrupt(context.Background())
	require.NoError(t, ic.Err())

	ic.Stop()
	<-ic.Done()
	assert.ErrorIs(t, ic.Err(), context.Canceled)
	assert.Nil(t, ic.Signal(), "no signal arrived")
}

func TestWriteDocument_KeepsMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "style.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))

	require.NoError(t, WriteDocument(path, []byte(`{"version":8}`)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"version":8}`, string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestHandleExecutionError(t *testing.T) {
	assert.NoError(t, handleExecutionError(nil))
	assert.NoError(t, handleExecutionError(context.Canceled))
	assert.NoError(t, handleExecutionError(io.EOF))

	boom := errors.New("boom")
	assert.ErrorIs(t, handleExecutionError(boom), boom)
}
