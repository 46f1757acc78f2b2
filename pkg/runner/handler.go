package runner

import (
	"context"
)

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (CLI/TUI) and JSON (Structured) modes.
type IOHandler interface {
	// Output presents the current panel.
	Output(ctx context.Context, frame *Frame) error

	// Input reads one command line from the user.
	Input(ctx context.Context) (string, error)

	// SystemOutput presents a meta-message (errors, confirmations), distinct
	// from panel rendering.
	SystemOutput(ctx context.Context, msg string) error
}

// ContentRenderer transforms markdown before it is written.
// This allows TUI rendering (markdown to ANSI) without coupling this package.
type ContentRenderer func(string) (string, error)
