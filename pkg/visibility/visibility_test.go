package visibility_test

import (
	"testing"

	"github.com/aretw0/stylepanel/pkg/visibility"
	"github.com/stretchr/testify/assert"
)

func TestInitialize(t *testing.T) {
	s := visibility.Initialize([]string{"Layer", "Paint"})
	assert.Equal(t, visibility.State{"Layer": true, "Paint": true}, s)
}

func TestReconcile_KeepsKnownAndAddsNew(t *testing.T) {
	s := visibility.State{"Layer": true, "Fill Style": false}

	got := visibility.Reconcile(s, []string{"Layer", "Line Style"})

	assert.Equal(t, visibility.State{
		"Layer":      true,
		"Fill Style": false, // no longer in the schema, retained
		"Line Style": true,
	}, got)
	assert.Len(t, s, 2, "input state must not be mutated")
}

func TestReconcile_Monotonic(t *testing.T) {
	schemas := [][]string{
		{"Layer", "Source", "Paint"},
		{"Layer", "Paint", "Layout"},
		{"Layer"},
		{"Text", "Icon"},
		{"Layer", "Source", "Paint"},
	}

	s := visibility.Initialize(schemas[0])
	s = visibility.Toggle(s, "Paint", false)

	for _, titles := range schemas[1:] {
		before := s.Copy()
		s = visibility.Reconcile(s, titles)

		for k, v := range before {
			got, ok := s[k]
			assert.True(t, ok, "key %q dropped", k)
			assert.Equal(t, v, got, "key %q changed without a toggle", k)
		}
		assert.GreaterOrEqual(t, len(s), len(before))
	}

	assert.False(t, s["Paint"])
	assert.Equal(t, []string{"Icon", "Layer", "Layout", "Paint", "Source", "Text"}, s.Titles())
}

func TestToggle(t *testing.T) {
	s := visibility.Initialize([]string{"Layer"})

	collapsed := visibility.Toggle(s, "Layer", false)
	assert.False(t, collapsed["Layer"])
	assert.True(t, s["Layer"], "input state must not be mutated")

	inserted := visibility.Toggle(collapsed, "JSON", false)
	assert.Equal(t, visibility.State{"Layer": false, "JSON": false}, inserted)
}

func TestIsActive(t *testing.T) {
	s := visibility.State{"Layer": false}
	assert.False(t, s.IsActive("Layer"))
	assert.True(t, s.IsActive("Unknown"))

	var empty visibility.State
	assert.True(t, empty.IsActive("Anything"))
	assert.NotNil(t, empty.Copy())
}
