package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/stylepanel/pkg/domain"
	"github.com/aretw0/stylepanel/pkg/style"
)

// Overlay marks the layer being edited.
type Overlay struct {
	CurrentLayer string
}

// GenerateMermaid produces a Mermaid flowchart of how the style's layers
// draw from its sources. It applies semantic styling:
// - Source: ((Circle))
// - Source layer: [/Parallelogram/]
// - Background layer: [[Subroutine]]
// - Layer: [Rectangle]
// Filtered layers get a labelled edge.
//
// Node ids are positional (layer_0, src_1, ...) since style ids may hold any
// character; the real ids only appear in the quoted labels.
func GenerateMermaid(doc *style.Document, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	sources := doc.Sources()
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)

	srcIDs := make(map[string]string)
	source := func(name string) string {
		if id, ok := srcIDs[name]; ok {
			return id
		}
		id := fmt.Sprintf("src_%d", len(srcIDs))
		srcIDs[name] = id
		sb.WriteString(fmt.Sprintf("    %s((\"%s\"))\n", id, escapeLabel(name)))
		return id
	}
	for _, name := range names {
		source(name)
	}

	slIDs := make(map[string]string)
	layerIDs := make(map[string]string)
	for i, id := range doc.LayerIDs() {
		layer, err := doc.Layer(id)
		if err != nil {
			continue
		}
		nodeID := fmt.Sprintf("layer_%d", i)
		layerIDs[id] = nodeID
		label := escapeLabel(id)

		if layer.Type() == domain.LayerTypeBackground {
			sb.WriteString(fmt.Sprintf("    %s[[\"%s\"]]\n", nodeID, label))
			continue
		}
		sb.WriteString(fmt.Sprintf("    %s[\"%s <br/> %s\"]\n", nodeID, label, escapeLabel(layer.Type())))
		if layer.Source() == "" {
			continue
		}

		from := source(layer.Source())
		if sl := layer.SourceLayer(); sl != "" {
			key := layer.Source() + "\x00" + sl
			slID, ok := slIDs[key]
			if !ok {
				slID = fmt.Sprintf("sl_%d", len(slIDs))
				slIDs[key] = slID
				sb.WriteString(fmt.Sprintf("    %s[/\"%s\"/]\n", slID, escapeLabel(sl)))
				sb.WriteString(fmt.Sprintf("    %s --> %s\n", from, slID))
			}
			from = slID
		}

		arrow := "-->"
		if layer.HasFilter() {
			arrow = "-- \"filter\" -->"
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", from, arrow, nodeID))
	}

	if overlay != nil {
		if nodeID, ok := layerIDs[overlay.CurrentLayer]; ok {
			sb.WriteString("\n    %% Overlay Styles\n")
			// Force black text (color:#000) for high-contrast regardless of theme
			sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
			sb.WriteString(fmt.Sprintf("    class %s current;\n", nodeID))
		}
	}

	return sb.String()
}

var labelEscaper = strings.NewReplacer(
	`"`, "#quot;",
	"<", "#lt;",
	">", "#gt;",
	"\n", " ",
)

// escapeLabel makes s safe inside a quoted Mermaid label.
func escapeLabel(s string) string {
	return labelEscaper.Replace(s)
}
