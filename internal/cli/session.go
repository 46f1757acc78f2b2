package cli

import (
	"context"
	"crypto/md5"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/stylepanel"
	"github.com/aretw0/stylepanel/internal/presentation/tui"
	"github.com/aretw0/stylepanel/pkg/observability"
	"github.com/aretw0/stylepanel/pkg/runner"
	"github.com/aretw0/stylepanel/pkg/style"
)

// RunOptions contains the configuration for the run command.
type RunOptions struct {
	Config    Config
	StylePath string
	LayerID   string

	// Output receives the edited document. Defaults to StylePath.
	Output string
	// PanelID keys the saved visibility. Defaults to a hash of path and layer.
	PanelID  string
	Watch    bool
	JSON     bool
	ReadOnly bool
	Confirm  bool
	Fresh    bool

	Stdin  io.Reader
	Stdout io.Writer
}

// DefaultPanelID scopes the saved visibility by file and layer so panels of
// different projects don't collide.
func DefaultPanelID(stylePath, layerID string) string {
	abs, err := filepath.Abs(stylePath)
	if err != nil {
		abs = stylePath
	}
	hash := md5.Sum([]byte(abs + "#" + layerID))
	return fmt.Sprintf("run-%x", hash[:4])
}

// RunSession opens the interactive panel on one layer of a style file.
func RunSession(opts RunOptions) error {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Output == "" {
		opts.Output = opts.StylePath
	}
	if opts.PanelID == "" {
		opts.PanelID = DefaultPanelID(opts.StylePath, opts.LayerID)
	}
	if opts.Watch && opts.Output != opts.StylePath {
		return fmt.Errorf("--watch cannot be combined with --output")
	}

	logger := NewLogger(opts.Config)
	provider, err := LoadSchema(opts.Config.Schema)
	if err != nil {
		return err
	}
	doc, err := style.ReadFile(opts.StylePath)
	if err != nil {
		return err
	}

	sigCtx := WithInterrupt(context.Background())
	defer sigCtx.Stop()

	sessions, closer, err := OpenSessions(sigCtx, opts.Config.Store, logger)
	if err != nil {
		return err
	}
	defer closer.Close()

	if opts.Fresh {
		if err := sessions.Delete(sigCtx, opts.PanelID); err != nil {
			return fmt.Errorf("failed to reset panel %s: %w", opts.PanelID, err)
		}
	}

	p, err := stylepanel.Open(doc, opts.LayerID,
		stylepanel.WithSchema(provider),
		stylepanel.WithLogger(logger),
		stylepanel.WithLifecycleHooks(observability.LoggingHooks(logger)),
	)
	if err != nil {
		return err
	}

	var handler runner.IOHandler
	if opts.JSON {
		handler = runner.NewJSONHandler(opts.Stdin, opts.Stdout)
	} else {
		var thOpts []runner.TextHandlerOption
		if f, ok := opts.Stdout.(*os.File); ok && tui.IsTerminal(f) {
			thOpts = append(thOpts, runner.WithTextHandlerRenderer(tui.NewRenderer()))
		}
		handler = runner.NewTextHandler(opts.Stdin, opts.Stdout, thOpts...)
		tui.PrintBanner(opts.Stdout, strings.TrimSpace(stylepanel.Version), opts.LayerID)
	}

	interceptors := []runner.CommandInterceptor{}
	if opts.ReadOnly {
		interceptors = append(interceptors, runner.ReadOnlyMiddleware())
	}
	if opts.Confirm {
		interceptors = append(interceptors, runner.ConfirmationMiddleware(handler))
	}

	var watcher *DocumentWatcher
	write := func(d *style.Document) error {
		data := d.Bytes()
		if watcher != nil {
			watcher.Remember(data)
		}
		return WriteDocument(opts.Output, data)
	}

	rOpts := []runner.Option{
		runner.WithLogger(logger),
		runner.WithInputHandler(handler),
		runner.WithInterceptor(runner.MultiInterceptor(interceptors...)),
		runner.WithSessions(sessions, opts.PanelID),
		runner.WithOnChange(write),
	}
	if opts.Watch {
		watcher, err = WatchDocument(sigCtx, opts.StylePath, logger)
		if err != nil {
			return err
		}
		rOpts = append(rOpts, runner.WithReloads(watcher.Documents()))
		if !opts.JSON {
			printSystemMessage(opts.Stdout, "Watching '%s' for changes.", opts.StylePath)
		}
	}

	logger.Info("Panel opened", "panel_id", opts.PanelID, "layer_id", opts.LayerID)
	runErr := runner.NewRunner(rOpts...).Run(sigCtx, p)

	if sigCtx.Err() != nil && runErr == nil {
		runErr = sigCtx.Err()
	}
	if !opts.JSON && sigCtx.Signal() != nil {
		fmt.Fprintln(opts.Stdout)
		printSystemMessage(opts.Stdout, "Interrupted while editing '%s'.", p.LayerID())
	}
	return handleExecutionError(runErr)
}
