package runner

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrReadOnly is returned when a mutating command is blocked.
var ErrReadOnly = errors.New("panel is read-only")

// ErrDenied is returned when the user declines a confirmation.
var ErrDenied = errors.New("denied by user")

// CommandInterceptor can block a command before it runs.
// A nil error lets the command proceed.
type CommandInterceptor func(ctx context.Context, cmd Command) error

// MultiInterceptor chains interceptors; the first error wins.
func MultiInterceptor(interceptors ...CommandInterceptor) CommandInterceptor {
	return func(ctx context.Context, cmd Command) error {
		for _, interceptor := range interceptors {
			if err := interceptor(ctx, cmd); err != nil {
				return err
			}
		}
		return nil
	}
}

// ReadOnlyMiddleware rejects every command that edits the layer.
func ReadOnlyMiddleware() CommandInterceptor {
	return func(ctx context.Context, cmd Command) error {
		if cmd.Mutating() {
			return fmt.Errorf("%w: %s", ErrReadOnly, cmd.Name)
		}
		return nil
	}
}

// ConfirmationMiddleware asks through handler before destructive commands
// (whole-layer replacement and renames).
func ConfirmationMiddleware(handler IOHandler) CommandInterceptor {
	return func(ctx context.Context, cmd Command) error {
		if !cmd.Destructive() {
			return nil
		}
		if err := handler.SystemOutput(ctx, fmt.Sprintf("%q rewrites the layer. Continue? [y/N]", cmd.Name)); err != nil {
			return err
		}
		input, err := handler.Input(ctx)
		if err != nil {
			return err
		}
		switch strings.TrimSpace(strings.ToLower(input)) {
		case "y", "yes":
			return nil
		}
		return ErrDenied
	}
}

// AutoApproveMiddleware allows everything.
func AutoApproveMiddleware() CommandInterceptor {
	return func(ctx context.Context, cmd Command) error {
		return nil
	}
}
