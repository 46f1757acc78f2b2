package mcp

import (
	"context"
	"testing"

	"github.com/aretw0/stylepanel/pkg/adapters/memory"
	"github.com/aretw0/stylepanel/pkg/schema"
	"github.com/aretw0/stylepanel/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testStyle = `{
  "version": 8,
  "sources": {"osm": {"type": "vector"}},
  "layers": [
    {"id": "water", "type": "fill", "source": "osm", "paint": {"fill-color": "#00f"}},
    {"id": "roads", "type": "line", "source": "osm"}
  ]
}`

func newTestServer() *Server {
	return NewServer(schema.Default(), session.NewManager(memory.NewStore()))
}

func request(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func groupActive(r PanelResult, title string) bool {
	for _, g := range r.Groups {
		if g.Title == title {
			return g.Active
		}
	}
	return false
}

func TestListGroups(t *testing.T) {
	s := newTestServer()
	ctx := context.Background()

	res, err := s.handleListGroups(ctx, request(map[string]any{"layer_type": "fill"}))
	require.NoError(t, err)
	require.False(t, res.IsError)
	text := res.Content[0].(mcp.TextContent).Text
	assert.Contains(t, text, `"title":"Paint properties"`)
	assert.Contains(t, text, `"fill-color"`)

	res, err = s.handleListGroups(ctx, request(nil))
	require.NoError(t, err)
	assert.Contains(t, res.Content[0].(mcp.TextContent).Text, `"layer_types"`)

	res, err = s.handleListGroups(ctx, request(map[string]any{"layer_type": "unicorn"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestRenderPanel(t *testing.T) {
	s := newTestServer()
	args := map[string]any{"style": testStyle, "layer_id": "water"}

	res, err := s.handleRenderPanel(context.Background(), request(args), args)
	require.NoError(t, err)
	assert.Equal(t, DefaultPanelID, res.PanelID)
	assert.Equal(t, "fill", res.LayerType)
	assert.Contains(t, res.Markdown, "# water")
	assert.Empty(t, res.Style)
	assert.True(t, groupActive(res, "Paint properties"))

	args["layer_id"] = "missing"
	_, err = s.handleRenderPanel(context.Background(), request(args), args)
	assert.Error(t, err)
}

func TestApplyEdit(t *testing.T) {
	s := newTestServer()
	ctx := context.Background()

	tests := []struct {
		path  string
		value string
		check func(t *testing.T, r PanelResult)
	}{
		{"paint.fill-opacity", "0.5", func(t *testing.T, r PanelResult) {
			assert.Equal(t, 0.5, r.Layer["paint"].(map[string]any)["fill-opacity"])
			assert.Contains(t, r.Style, `"fill-opacity":0.5`)
		}},
		{"type", "line", func(t *testing.T, r PanelResult) {
			assert.Equal(t, "line", r.LayerType)
		}},
		{"filter", `["==", "class", "lake"]`, func(t *testing.T, r PanelResult) {
			assert.Equal(t, []any{"==", "class", "lake"}, r.Layer["filter"])
		}},
		{"id", "lakes", func(t *testing.T, r PanelResult) {
			assert.Equal(t, "lakes", r.LayerID)
			assert.Contains(t, r.Style, `"lakes"`)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			args := map[string]any{"style": testStyle, "layer_id": "water", "path": tt.path, "value": tt.value}
			res, err := s.handleApplyEdit(ctx, request(args), args)
			require.NoError(t, err)
			tt.check(t, res)
		})
	}

	t.Run("Duplicate ID", func(t *testing.T) {
		args := map[string]any{"style": testStyle, "layer_id": "water", "path": "id", "value": "roads"}
		_, err := s.handleApplyEdit(ctx, request(args), args)
		assert.Error(t, err)
	})
}

func TestToggleGroupPersists(t *testing.T) {
	s := newTestServer()
	ctx := context.Background()

	args := map[string]any{"style": testStyle, "layer_id": "water", "title": "Source", "active": false, "panel_id": "p1"}
	res, err := s.handleToggleGroup(ctx, request(args), args)
	require.NoError(t, err)
	assert.False(t, groupActive(res, "Source"))

	render := map[string]any{"style": testStyle, "layer_id": "water", "panel_id": "p1"}
	res, err = s.handleRenderPanel(ctx, request(render), render)
	require.NoError(t, err)
	assert.False(t, groupActive(res, "Source"))

	// Other panels are unaffected.
	render["panel_id"] = "p2"
	res, err = s.handleRenderPanel(ctx, request(render), render)
	require.NoError(t, err)
	assert.True(t, groupActive(res, "Source"))

	flip := map[string]any{"style": testStyle, "layer_id": "water", "title": "Source", "panel_id": "p1"}
	res, err = s.handleToggleGroup(ctx, request(flip), flip)
	require.NoError(t, err)
	assert.True(t, groupActive(res, "Source"))
}

func TestEditCommand(t *testing.T) {
	assert.Equal(t, "set", editCommand("paint.fill-color", "#f00").Name)
	assert.Equal(t, "paint.fill-color #f00", editCommand("paint.fill-color", "#f00").Args)
	assert.Equal(t, "source-layer", editCommand("source-layer", "water").Name)
	assert.Equal(t, "id", editCommand("id", "x").Name)
}
