package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

const (
	prompt             = "> "
	continuationPrompt = ". "
)

// TextHandler renders frames as markdown and reads commands line by line.
// A line ending in a backslash continues on the next one, so long raw layers
// can be pasted over several lines.
type TextHandler struct {
	in     *bufio.Reader
	out    io.Writer
	render ContentRenderer

	lines chan readResult
	start sync.Once

	// pending holds continued lines of a command interrupted by ctx.
	pending []string
}

type readResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer renders frame markdown before it is printed, e.g.
// with glamour on a terminal.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.render = renderer
	}
}

// NewTextHandler reads from r and writes to w, defaulting to stdio.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{in: bufio.NewReader(r), out: w}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Reads block, so they run in their own goroutine and Input stays
// responsive to ctx.
func (h *TextHandler) readLines() <-chan readResult {
	h.start.Do(func() {
		h.lines = make(chan readResult)
		go func() {
			defer close(h.lines)
			for {
				text, err := h.in.ReadString('\n')
				if text != "" {
					h.lines <- readResult{text: text}
				}
				if err != nil {
					if err != io.EOF {
						h.lines <- readResult{err: err}
					}
					return
				}
			}
		}()
	})
	return h.lines
}

func (h *TextHandler) Output(ctx context.Context, frame *Frame) error {
	text := frame.Markdown()
	if h.render != nil {
		if rendered, err := h.render(text); err == nil {
			text = rendered
		}
	}
	_, err := fmt.Fprintln(h.out, strings.TrimSpace(text))
	return err
}

func (h *TextHandler) Input(ctx context.Context) (string, error) {
	for {
		line, err := h.readCommand(ctx)
		if err != nil {
			return "", err
		}
		clean, err := SanitizeInput(line)
		if err != nil {
			fmt.Fprintf(h.out, "Error: %v. Please try again.\n", err)
			continue
		}
		return clean, nil
	}
}

// readCommand joins continued lines into one command. Lines read before a
// cancellation are kept and the next call resumes the same command.
func (h *TextHandler) readCommand(ctx context.Context) (string, error) {
	p := prompt
	if len(h.pending) > 0 {
		p = continuationPrompt
	}
	for {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		fmt.Fprint(h.out, p)

		var res readResult
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case r, ok := <-h.readLines():
			if !ok {
				if len(h.pending) > 0 {
					return h.flush(), nil
				}
				return "", io.EOF
			}
			res = r
		}
		if res.err != nil {
			h.pending = nil
			return "", res.err
		}

		line := strings.TrimRight(res.text, "\r\n")
		if body, more := strings.CutSuffix(line, `\`); more {
			h.pending = append(h.pending, body)
			p = continuationPrompt
			continue
		}
		h.pending = append(h.pending, line)
		return h.flush(), nil
	}
}

func (h *TextHandler) flush() string {
	cmd := strings.TrimSpace(strings.Join(h.pending, "\n"))
	h.pending = nil
	return cmd
}

func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	_, err := fmt.Fprintf(h.out, "[System] %s\n", strings.TrimRight(msg, "\n"))
	return err
}
