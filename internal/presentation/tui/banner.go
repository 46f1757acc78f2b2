package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the stylepanel banner and the panel being edited.
func PrintBanner(w io.Writer, version, layerID string) {
	p := termenv.ColorProfile()
	// Map-ish palette: water, park, sand, road.
	lines := []termenv.Style{
		termenv.String(" ┌─┐┌┬┐┬ ┬┬  ┌─┐┌─┐┌─┐┌┐┌┌─┐┬  ").Foreground(p.Color("#60a5fa")),
		termenv.String(" └─┐ │ └┬┘│  ├┤ ├─┘├─┤│││├┤ │  ").Foreground(p.Color("#34d399")),
		termenv.String(" └─┘ ┴  ┴ ┴─┘└─┘┴  ┴ ┴┘└┘└─┘┴─┘").Foreground(p.Color("#fbbf24")),
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
	meta := termenv.String(fmt.Sprintf(" v%s  editing %q  (type help)", version, layerID)).Faint()
	fmt.Fprintln(w, meta)
	fmt.Fprintln(w)
}
