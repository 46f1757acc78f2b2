package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"

	"github.com/aretw0/stylepanel/internal/logging"
)

// InterruptContext is cancelled by SIGINT or SIGTERM and remembers which
// signal arrived, so the session can tell an interrupt from a normal exit.
type InterruptContext struct {
	context.Context
	cancel context.CancelFunc
	sig    atomic.Value // os.Signal
}

// WithInterrupt derives an InterruptContext from parent. Call Stop to release it.
func WithInterrupt(parent context.Context) *InterruptContext {
	ctx, cancel := context.WithCancel(parent)
	ic := &InterruptContext{Context: ctx, cancel: cancel}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer signal.Stop(ch)
		select {
		case sig := <-ch:
			ic.sig.Store(sig)
			cancel()
		case <-ctx.Done():
		}
	}()
	return ic
}

// Stop cancels the context and stops listening for signals.
func (ic *InterruptContext) Stop() { ic.cancel() }

// Signal returns the signal that cancelled the context, or nil.
func (ic *InterruptContext) Signal() os.Signal {
	sig, _ := ic.sig.Load().(os.Signal)
	return sig
}

// NewLogger configures the application logger.
// Without --debug only warnings reach Stderr, keeping Stdout for panels.
func NewLogger(cfg Config) *slog.Logger {
	level := slog.LevelWarn
	if cfg.Debug {
		level = slog.LevelDebug
	}
	return logging.NewWithFormat(os.Stderr, level, cfg.LogFormat)
}

// printSystemMessage prints a standardized system message to stdout.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

// WriteDocument writes data to path atomically (temp file, fsync, rename).
// The path "-" writes to stdout.
func WriteDocument(path string, data []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(append(data, '\n'))
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	perm := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	if err := os.Chmod(tmp.Name(), perm); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func isInterrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, io.EOF)
}

func handleExecutionError(err error) error {
	if err == nil || isInterrupted(err) {
		return nil // Exit 0 for interruptions
	}
	return err
}
