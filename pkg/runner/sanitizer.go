package runner

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxInputSize bounds a command line. Raw layer replacements are the largest input.
const DefaultMaxInputSize = 64 * 1024

// EnvMaxInputSize overrides DefaultMaxInputSize.
const EnvMaxInputSize = "STYLEPANEL_MAX_INPUT_SIZE"

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
)

// ansiSequence matches CSI escape sequences, e.g. colors pasted from a terminal.
var ansiSequence = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]`)

// Sanitizer cleans command lines before they reach the panel.
type Sanitizer struct {
	// MaxSize is the limit in bytes. Zero means no limit.
	MaxSize int
}

// Clean rejects oversized or invalid UTF-8 input, then drops escape sequences
// and every control character except newline and tab.
func (s Sanitizer) Clean(input string) (string, error) {
	if s.MaxSize > 0 && len(input) > s.MaxSize {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), s.MaxSize)
	}
	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}

	input = ansiSequence.ReplaceAllString(input, "")
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' || !unicode.IsControl(r) {
			return r
		}
		return -1
	}, input), nil
}

// SanitizeInput cleans input with the limit from the environment, or the default.
func SanitizeInput(input string) (string, error) {
	return Sanitizer{MaxSize: maxInputSize()}.Clean(input)
}

func maxInputSize() int {
	if v := os.Getenv(EnvMaxInputSize); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return DefaultMaxInputSize
}
