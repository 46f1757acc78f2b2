package runner

import (
	"log/slog"

	"github.com/aretw0/stylepanel/pkg/session"
	"github.com/aretw0/stylepanel/pkg/style"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithInputHandler configures the IOHandler.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithInterceptor configures the command policy.
func WithInterceptor(interceptor CommandInterceptor) Option {
	return func(r *Runner) {
		r.Interceptor = interceptor
	}
}

// WithSessions persists the panel visibility under panelID after every command.
func WithSessions(manager *session.Manager, panelID string) Option {
	return func(r *Runner) {
		r.Sessions = manager
		r.PanelID = panelID
	}
}

// WithReloads installs documents received on ch, e.g. from a file watcher.
func WithReloads(ch <-chan *style.Document) Option {
	return func(r *Runner) {
		r.Reloads = ch
	}
}

// WithOnChange is called with the document after every successful edit.
func WithOnChange(fn func(*style.Document) error) Option {
	return func(r *Runner) {
		r.OnChange = fn
	}
}
