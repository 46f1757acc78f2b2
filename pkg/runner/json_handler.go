package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"
)

// JSONHandler implements IOHandler over JSON-Lines: one frame per output
// line, one command per input line.
type JSONHandler struct {
	Reader  *bufio.Reader
	Writer  io.Writer
	Encoder *json.Encoder
}

// systemMessage is the JSON shape of SystemOutput.
type systemMessage struct {
	System string `json:"system"`
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Writer:  w,
		Encoder: json.NewEncoder(w),
	}
}

func (h *JSONHandler) Output(ctx context.Context, frame *Frame) error {
	return h.Encoder.Encode(frame)
}

// Input accepts a command object ({"name": "set", "args": "..."}), a JSON
// string holding a command line, or a raw command line.
func (h *JSONHandler) Input(ctx context.Context) (string, error) {
	text, err := h.Reader.ReadString('\n')
	if err != nil && (err != io.EOF || text == "") {
		return "", err
	}
	text = strings.TrimSpace(text)

	var cmd Command
	if err := json.Unmarshal([]byte(text), &cmd); err == nil && cmd.Name != "" {
		return SanitizeInput(cmd.String())
	}
	var line string
	if err := json.Unmarshal([]byte(text), &line); err == nil {
		return SanitizeInput(line)
	}
	return SanitizeInput(text)
}

func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.Encoder.Encode(systemMessage{System: msg})
}
