/*
Package stylepanel is a schema-driven editor panel for a single layer of a map style document.

A layer is a plain JSON object with an id, a type, an optional source binding,
a filter and nested property groups (paint, layout). The panel looks up the
groups defined for the layer type, renders each group through an editing
surface chosen by its kind, and turns every edit into a brand-new layer value.
The layer it was given is never mutated.

# Layers

	pkg/schema      group definitions per layer type (JSON, JSONC or YAML)
	pkg/visibility  which groups are expanded; keys are never dropped
	pkg/merge       copy-on-write property edits
	pkg/editor      the coordinator: groups, sections, edit routing
	pkg/style       locate and splice layers in a style document

The Panel type in this package ties them together for hosts that own a whole
style document: it commits each produced layer back into the document and
re-supplies it to the coordinator.

# Usage

	doc, err := style.ReadFile("style.json")
	if err != nil {
		log.Fatal(err)
	}

	panel, err := stylepanel.Open(doc, "water")
	if err != nil {
		log.Fatal(err)
	}

	panel.Toggle("Layout properties", false)
	if err := panel.Set("paint.fill-color", "#0af"); err != nil {
		log.Fatal(err)
	}

	for _, g := range panel.Render() {
		fmt.Println(g.Title, g.Kind, g.Active)
	}

	os.Stdout.Write(panel.Document().Pretty())
*/
package stylepanel
