/*
Package editor implements the layer editor coordinator.

A Coordinator owns the group visibility state of one panel. For the layer it
is given it resolves the schema groups, reconciles visibility, and renders one
GroupView per group with a kind-specific Section. Sections expose the edit
operations of their surface; every edit is turned into a new layer and handed
to the owner through the layer-changed callback. Id edits bypass the merge and
go to the rename callback instead.

The Coordinator never keeps a layer it produced: the owner is the source of
truth and re-supplies the layer with SetLayer.

	c := editor.New(schema.Default(), layer,
		editor.WithOnLayerChanged(func(l domain.Layer) { layer = l }),
	)
	for _, view := range c.Render() {
		if props, ok := view.Section.(*editor.PropertiesSection); ok {
			props.Set("fill-color", "#ff0000")
		}
	}

A Coordinator is not safe for concurrent use.
*/
package editor
