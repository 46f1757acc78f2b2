package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/aretw0/stylepanel"
	"github.com/aretw0/stylepanel/internal/logging"
	"github.com/aretw0/stylepanel/pkg/domain"
	"github.com/aretw0/stylepanel/pkg/session"
	"github.com/aretw0/stylepanel/pkg/style"
	"github.com/aretw0/stylepanel/pkg/visibility"
)

// Runner handles the render/read/apply loop of a panel using provided IO.
type Runner struct {
	// Handler is the strategy for IO. Defaults to a TextHandler on stdio.
	Handler IOHandler

	// Interceptor is applied to every command. Defaults to AutoApprove.
	Interceptor CommandInterceptor

	// Logger is used for internal debug logging.
	Logger *slog.Logger

	// Sessions persists visibility under PanelID. Optional.
	Sessions *session.Manager
	PanelID  string

	// Reloads delivers externally changed documents. Optional.
	Reloads <-chan *style.Document

	// OnChange receives the document after each edit. Optional.
	OnChange func(*style.Document) error
}

// NewRunner creates a Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.Handler == nil {
		r.Handler = NewTextHandler(nil, nil)
	}
	if r.Interceptor == nil {
		r.Interceptor = AutoApproveMiddleware()
	}
	return r
}

// Run drives p until the user quits, input ends, or ctx is cancelled.
// Command errors are reported to the user and do not stop the loop.
func (r *Runner) Run(ctx context.Context, p *stylepanel.Panel) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := r.restore(ctx, p); err != nil {
		return err
	}

	for {
		if err := r.Handler.Output(ctx, NewFrame(p)); err != nil {
			return fmt.Errorf("output error: %w", err)
		}

		line, reloaded, err := r.read(ctx)
		if reloaded != nil {
			if err := p.Reload(reloaded); err != nil {
				_ = r.Handler.SystemOutput(ctx, fmt.Sprintf("reload failed: %v", err))
			} else {
				r.Logger.Debug("Document reloaded", "layer_id", p.LayerID())
			}
		}
		if errors.Is(err, errReloaded) {
			continue
		}
		if err != nil {
			awaitSignal(ctx)
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				r.Logger.Debug("Runner stopped", "err", err)
				return nil
			}
			return fmt.Errorf("input error: %w", err)
		}

		if err := r.step(ctx, p, ParseCommand(line)); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			_ = r.Handler.SystemOutput(ctx, err.Error())
		}
	}
}

var errReloaded = errors.New("document reloaded")

// signalGrace is how long an input error waits for a signal that may follow it.
// On Windows, Ctrl+C reaches stdin as EOF slightly before SIGINT.
const signalGrace = 100 * time.Millisecond

func awaitSignal(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	t := time.NewTimer(signalGrace)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// read waits for one input line or one reloaded document, whichever comes first.
func (r *Runner) read(ctx context.Context) (string, *style.Document, error) {
	if r.Reloads == nil {
		line, err := r.Handler.Input(ctx)
		return line, nil, err
	}

	inputCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		reloaded *style.Document
		wg       sync.WaitGroup
		done     = make(chan struct{})
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		select {
		case doc, ok := <-r.Reloads:
			if !ok {
				return
			}
			reloaded = doc
			cancel()
		case <-done:
		}
	}()

	line, err := r.Handler.Input(inputCtx)
	close(done)
	wg.Wait()

	if reloaded != nil && err != nil && ctx.Err() == nil {
		return "", reloaded, errReloaded
	}
	return line, reloaded, err
}

func (r *Runner) step(ctx context.Context, p *stylepanel.Panel, cmd Command) error {
	if err := r.Interceptor(ctx, cmd); err != nil {
		return err
	}

	msg, err := Execute(p, cmd)
	if err != nil {
		return err
	}
	if msg != "" {
		if err := r.Handler.SystemOutput(ctx, msg); err != nil {
			return err
		}
	}

	if cmd.Mutating() && r.OnChange != nil {
		if err := r.OnChange(p.Document()); err != nil {
			return fmt.Errorf("failed to write document: %w", err)
		}
	}
	return r.persist(ctx, p)
}

// restore resumes the saved visibility of the panel.
func (r *Runner) restore(ctx context.Context, p *stylepanel.Panel) error {
	if r.Sessions == nil || r.PanelID == "" {
		return nil
	}
	state, err := r.Sessions.LoadOrStart(ctx, r.PanelID)
	if err != nil {
		return fmt.Errorf("failed to load panel %s: %w", r.PanelID, err)
	}
	p.Restore(state.Groups)
	r.Logger.Debug("Panel restored", "panel_id", r.PanelID, "groups", visibility.State(state.Groups).Titles())
	return nil
}

func (r *Runner) persist(ctx context.Context, p *stylepanel.Panel) error {
	if r.Sessions == nil || r.PanelID == "" {
		return nil
	}
	_, err := r.Sessions.Update(ctx, r.PanelID, func(s *domain.PanelState) error {
		s.LayerID = p.LayerID()
		s.Groups = p.State()
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save panel %s: %w", r.PanelID, err)
	}
	r.Logger.Debug("Panel saved", "panel_id", r.PanelID)
	return nil
}
