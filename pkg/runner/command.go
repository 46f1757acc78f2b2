package runner

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/stylepanel"
	"github.com/aretw0/stylepanel/pkg/domain"
)

// ErrUnknownCommand is returned for a command name the runner doesn't know.
var ErrUnknownCommand = errors.New("unknown command")

// errQuit ends the loop.
var errQuit = errors.New("quit")

// Command is one parsed input line: a name and the unparsed remainder.
type Command struct {
	Name string `json:"name"`
	Args string `json:"args,omitempty"`
}

// ParseCommand splits a line into name and arguments.
func ParseCommand(line string) Command {
	line = strings.TrimSpace(line)
	name, args, _ := strings.Cut(line, " ")
	return Command{Name: strings.ToLower(name), Args: strings.TrimSpace(args)}
}

// Mutating reports whether the command edits the layer.
func (c Command) Mutating() bool {
	switch c.Name {
	case "set", "type", "id", "source", "source-layer", "filter", "raw":
		return true
	}
	return false
}

// Destructive reports whether the command replaces data wholesale.
func (c Command) Destructive() bool {
	return c.Name == "raw" || c.Name == "id"
}

func (c Command) String() string {
	if c.Args == "" {
		return c.Name
	}
	return c.Name + " " + c.Args
}

var commandHelp = map[string]string{
	"show":         "show                      render the panel",
	"toggle":       "toggle <title> [on|off]   expand or collapse a group",
	"set":          "set <path> <value>        edit a property, e.g. set paint.fill-color #f00",
	"type":         "type <layer-type>         change the layer type",
	"id":           "id <new-id>               rename the layer",
	"source":       "source <id>               bind another source",
	"source-layer": "source-layer <name>       bind another source layer",
	"filter":       "filter <json>             replace the filter expression",
	"raw":          "raw <json>                replace the whole layer",
	"help":         "help                      list commands",
	"quit":         "quit                      leave",
}

// Help lists the commands.
func Help() string {
	var b strings.Builder
	for _, name := range sortedKeys(commandHelp) {
		b.WriteString(commandHelp[name])
		b.WriteString("\n")
	}
	return b.String()
}

// Execute applies cmd to p. It returns a message for the user, if any.
func Execute(p *stylepanel.Panel, cmd Command) (string, error) {
	switch cmd.Name {
	case "", "show":
		return "", nil
	case "help", "?":
		return Help(), nil
	case "quit", "exit":
		return "", errQuit
	case "toggle":
		return "", toggle(p, cmd.Args)
	case "set":
		path, value, ok := strings.Cut(cmd.Args, " ")
		if !ok || path == "" {
			return "", fmt.Errorf("usage: %s", commandHelp["set"])
		}
		return "", p.SetText(path, strings.TrimSpace(value))
	case "type":
		if cmd.Args == "" {
			return "", fmt.Errorf("usage: %s", commandHelp["type"])
		}
		return "", p.SetType(cmd.Args)
	case "id":
		return "", p.Rename(cmd.Args)
	case "source":
		return "", p.SetSource(cmd.Args)
	case "source-layer":
		return "", p.SetSourceLayer(cmd.Args)
	case "filter":
		var filter any
		if err := json.Unmarshal([]byte(cmd.Args), &filter); err != nil {
			return "", fmt.Errorf("filter must be JSON: %w", err)
		}
		return "", p.SetFilter(filter)
	case "raw":
		var v any
		if err := json.Unmarshal([]byte(cmd.Args), &v); err != nil {
			return "", fmt.Errorf("layer must be JSON: %w", err)
		}
		layer, err := domain.AsLayer(v)
		if err != nil {
			return "", err
		}
		return "", p.Replace(layer)
	default:
		return "", fmt.Errorf("%w: %q (try help)", ErrUnknownCommand, cmd.Name)
	}
}

func toggle(p *stylepanel.Panel, args string) error {
	if args == "" {
		return fmt.Errorf("usage: %s", commandHelp["toggle"])
	}
	title := args
	var active *bool
	if i := strings.LastIndexByte(args, ' '); i > 0 {
		switch strings.ToLower(args[i+1:]) {
		case "on", "open", "expand":
			v := true
			active, title = &v, args[:i]
		case "off", "close", "collapse":
			v := false
			active, title = &v, args[:i]
		}
	}
	if active == nil {
		// Plain toggle flips the current state.
		v := !p.State().IsActive(title)
		active = &v
	}
	p.Toggle(title, *active)
	return nil
}
