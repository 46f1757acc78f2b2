package runner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAwaitSignal(t *testing.T) {
	start := time.Now()
	awaitSignal(context.Background())
	elapsed := time.Since(start)
	assert.GreaterOrEqual(t, elapsed, signalGrace)
	assert.Less(t, elapsed, 3*signalGrace)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start = time.Now()
	awaitSignal(ctx)
	assert.Less(t, time.Since(start), signalGrace, "a cancelled context returns at once")
}
