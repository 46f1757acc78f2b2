package merge_test

import (
	"reflect"
	"testing"

	"github.com/aretw0/stylepanel/pkg/domain"
	"github.com/aretw0/stylepanel/pkg/merge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// snapshot deep-copies the two levels a layer can have so mutations are detectable.
func snapshot(l domain.Layer) domain.Layer {
	out := domain.Layer{}
	for k, v := range l {
		if m, ok := v.(map[string]any); ok {
			c := map[string]any{}
			for mk, mv := range m {
				c[mk] = mv
			}
			out[k] = c
			continue
		}
		out[k] = v
	}
	return out
}

func TestApplyEdit_TopLevel(t *testing.T) {
	paint := map[string]any{"fill-color": "#fff"}
	l := domain.Layer{"id": "l1", "type": "fill", "paint": paint}
	before := snapshot(l)

	got := merge.ApplyEdit(l, "", "type", "line")

	assert.Equal(t, "line", got.Type())
	assert.Equal(t, "l1", got.ID())
	assert.Equal(t, before, snapshot(l), "input must not be mutated")
	assert.Equal(t, reflect.ValueOf(paint).Pointer(), reflect.ValueOf(got["paint"]).Pointer(),
		"untouched groups are shared by reference")
}

func TestApplyEdit_Nested(t *testing.T) {
	layout := map[string]any{"visibility": "visible"}
	l := domain.Layer{
		"id":     "l1",
		"type":   "fill",
		"paint":  map[string]any{"fill-color": "#fff"},
		"layout": layout,
	}
	before := snapshot(l)

	got := merge.ApplyEdit(l, "paint", "fill-opacity", 0.5)

	assert.Equal(t, map[string]any{"fill-color": "#fff", "fill-opacity": 0.5}, got["paint"])
	assert.Equal(t, map[string]any{"fill-color": "#fff"}, l["paint"], "original group unchanged")
	assert.Equal(t, before, snapshot(l))
	assert.Equal(t, reflect.ValueOf(layout).Pointer(), reflect.ValueOf(got["layout"]).Pointer())

	diff := domain.Diff(l, got)
	require.NotNil(t, diff)
	assert.Equal(t, []string{"paint.fill-opacity"}, diff.Paths(), "exactly one nested key differs")
}

func TestApplyEdit_MissingOrInvalidGroup(t *testing.T) {
	t.Run("absent", func(t *testing.T) {
		l := domain.Layer{"id": "l1"}
		got := merge.ApplyEdit(l, "layout", "visibility", "none")
		assert.Equal(t, map[string]any{"visibility": "none"}, got["layout"])
		_, exists := l["layout"]
		assert.False(t, exists)
	})

	t.Run("not a mapping", func(t *testing.T) {
		l := domain.Layer{"id": "l1", "paint": "garbage"}
		got := merge.ApplyEdit(l, "paint", "fill-color", "#000")
		assert.Equal(t, map[string]any{"fill-color": "#000"}, got["paint"])
		assert.Equal(t, "garbage", l["paint"])
	})

	t.Run("nil layer", func(t *testing.T) {
		got := merge.ApplyEdit(nil, "", "id", "fresh")
		assert.Equal(t, domain.Layer{"id": "fresh"}, got)
	})
}

func TestApplyEdit_ScenarioFillColor(t *testing.T) {
	l := domain.Layer{"id": "l1", "type": "fill", "paint": map[string]any{}}

	got := merge.ApplyEvent(l, domain.EditEvent{Group: "paint", Field: "fill-color", Value: "#ff0000"})

	assert.Equal(t, domain.Layer{
		"id":    "l1",
		"type":  "fill",
		"paint": map[string]any{"fill-color": "#ff0000"},
	}, got)
	assert.Empty(t, l.Group("paint"))
}

func TestReplace(t *testing.T) {
	l := domain.Layer{"id": "x"}
	assert.Equal(t, l, merge.Replace(l))
	assert.Equal(t, domain.Layer{}, merge.Replace(nil))
}
