package style_test

import (
	"testing"

	"github.com/aretw0/stylepanel/pkg/domain"
	"github.com/aretw0/stylepanel/pkg/style"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `{
  // basemap
  "version": 8,
  "sources": {
    "osm": {
      "type": "vector",
      "vector_layers": [
        {"id": "water", "fields": {"class": "String", "intermittent": "Number"}},
        {"id": "roads", "fields": {"kind": "String"}}
      ]
    }
  },
  "layers": [
    {"id": "bg", "type": "background", "paint": {"background-color": "#fff"}},
    {"id": "water", "type": "fill", "source": "osm", "source-layer": "water",
     "paint": {"fill-color": "#00f"}},
  ]
}`

func parse(t *testing.T) *style.Document {
	t.Helper()
	doc, err := style.Parse([]byte(sample))
	require.NoError(t, err)
	return doc
}

func TestParse(t *testing.T) {
	doc := parse(t)
	assert.Equal(t, []string{"bg", "water"}, doc.LayerIDs())

	_, err := style.Parse([]byte(`[1, 2]`))
	assert.ErrorIs(t, err, domain.ErrInvalidStyle)

	_, err = style.Parse([]byte(`{"layers": {}}`))
	assert.ErrorIs(t, err, domain.ErrInvalidStyle)

	_, err = style.Parse([]byte(`{"layers": [`))
	assert.ErrorIs(t, err, domain.ErrInvalidStyle)
}

func TestLayer(t *testing.T) {
	doc := parse(t)

	layer, err := doc.Layer("water")
	require.NoError(t, err)
	assert.Equal(t, "fill", layer.Type())
	assert.Equal(t, "water", layer.SourceLayer())
	assert.Equal(t, map[string]any{"fill-color": "#00f"}, layer.Group("paint"))

	_, err = doc.Layer("nope")
	assert.ErrorIs(t, err, domain.ErrLayerNotFound)
}

func TestReplaceLayer(t *testing.T) {
	doc := parse(t)

	next, err := doc.ReplaceLayer("water", domain.Layer{"id": "water", "type": "line"})
	require.NoError(t, err)

	layer, err := next.Layer("water")
	require.NoError(t, err)
	assert.Equal(t, domain.Layer{"id": "water", "type": "line"}, layer)

	old, err := doc.Layer("water")
	require.NoError(t, err)
	assert.Equal(t, "fill", old.Type(), "original document must be unchanged")

	_, err = doc.ReplaceLayer("water", domain.Layer{"id": "bg", "type": "fill"})
	assert.ErrorIs(t, err, domain.ErrDuplicateLayerID)
}

func TestRenameLayer(t *testing.T) {
	doc := parse(t)

	next, err := doc.RenameLayer("water", "lake")
	require.NoError(t, err)
	assert.Equal(t, []string{"bg", "lake"}, next.LayerIDs())

	_, err = doc.RenameLayer("water", "bg")
	assert.ErrorIs(t, err, domain.ErrDuplicateLayerID)

	_, err = doc.RenameLayer("ghost", "x")
	assert.ErrorIs(t, err, domain.ErrLayerNotFound)

	_, err = doc.RenameLayer("water", "")
	assert.ErrorIs(t, err, domain.ErrInvalidLayer)

	same, err := doc.RenameLayer("water", "water")
	require.NoError(t, err)
	assert.Same(t, doc, same)
}

func TestSourcesAndVectorLayers(t *testing.T) {
	doc := parse(t)

	assert.Contains(t, doc.Sources(), "osm")
	assert.Equal(t, map[string][]string{
		"water": {"class", "intermittent"},
		"roads": {"kind"},
	}, doc.VectorLayers())
}
