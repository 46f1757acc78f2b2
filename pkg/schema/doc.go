// Package schema describes which editing groups exist for each layer type.
//
// A Document maps a layer type ("fill", "line", ...) to an ordered list of
// Groups. Each Group has a unique title, a kind selecting its editing surface,
// and a list of Fields. A Field names the property it edits and the nested
// layer key it lives in ("paint", "layout", or the top level).
//
// Documents are read from JSON, JSONC or YAML and are read-only once loaded:
//
//	doc, err := schema.ParseFile("layout.yaml")
//	groups, ok := doc.Groups("fill")
//
// Field types (string, number, bool, color, enum, arrays) let field renderers
// turn user text into values:
//
//	t, _ := schema.ParseType("enum(butt|round|square)")
//	v, err := t.Parse("round")
//
// The built-in layout is available through Default.
package schema
