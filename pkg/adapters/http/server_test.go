package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/stylepanel/pkg/adapters/memory"
	"github.com/aretw0/stylepanel/pkg/observability"
	"github.com/aretw0/stylepanel/pkg/schema"
	"github.com/aretw0/stylepanel/pkg/session"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testStyle = `{
  "version": 8,
  "sources": {"osm": {"type": "vector"}},
  "layers": [
    {"id": "background", "type": "background"},
    {"id": "water", "type": "fill", "source": "osm", "source-layer": "water",
     "paint": {"fill-color": "#00f"}}
  ]
}`

type groupJSON struct {
	Title  string `json:"title"`
	Kind   string `json:"kind"`
	Active bool   `json:"active"`
}

type panelJSON struct {
	PanelID string `json:"panel_id"`
	Frame   struct {
		LayerID   string         `json:"layer_id"`
		LayerType string         `json:"layer_type"`
		Groups    []groupJSON    `json:"groups"`
		Layer     map[string]any `json:"layer"`
	} `json:"frame"`
	Diff  map[string]any  `json:"diff"`
	Style json.RawMessage `json:"style"`
}

func (p panelJSON) active(title string) (bool, bool) {
	for _, g := range p.Frame.Groups {
		if g.Title == title {
			return g.Active, true
		}
	}
	return false, false
}

func newTestServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()
	s := NewServer(schema.Default(), session.NewManager(memory.NewStore()), WithMetrics(observability.NewMetrics()))
	return s, s.Routes()
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, path, &buf))
	return w
}

func decodePanel(t *testing.T, w *httptest.ResponseRecorder) panelJSON {
	t.Helper()
	var resp panelJSON
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func create(t *testing.T, h http.Handler, layerID string) panelJSON {
	t.Helper()
	w := do(t, h, "POST", "/panels", PanelRequest{Style: json.RawMessage(testStyle), LayerID: layerID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodePanel(t, w)
}

func TestCreatePanel(t *testing.T) {
	_, h := newTestServer(t)

	resp := create(t, h, "water")
	assert.NotEmpty(t, resp.PanelID)
	assert.Equal(t, "water", resp.Frame.LayerID)
	assert.Equal(t, "fill", resp.Frame.LayerType)
	for _, g := range resp.Frame.Groups {
		assert.True(t, g.Active, g.Title)
	}

	t.Run("Unknown Layer", func(t *testing.T) {
		w := do(t, h, "POST", "/panels", PanelRequest{Style: json.RawMessage(testStyle), LayerID: "nope"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Invalid Style", func(t *testing.T) {
		w := do(t, h, "POST", "/panels", PanelRequest{Style: json.RawMessage(`{"layers": 3}`), LayerID: "water"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Missing Layer ID", func(t *testing.T) {
		w := do(t, h, "POST", "/panels", PanelRequest{Style: json.RawMessage(testStyle)})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestBackgroundHidesSource(t *testing.T) {
	_, h := newTestServer(t)

	resp := create(t, h, "background")
	_, ok := resp.active("Source")
	assert.False(t, ok, "background layers have no source group")
}

func TestTogglePersistsAcrossRequests(t *testing.T) {
	_, h := newTestServer(t)
	id := create(t, h, "water").PanelID

	off := false
	w := do(t, h, "POST", "/panels/"+id+"/toggle", ToggleRequest{
		PanelRequest: PanelRequest{Style: json.RawMessage(testStyle)},
		Title:        "Paint properties",
		Active:       &off,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	active, _ := decodePanel(t, w).active("Paint properties")
	assert.False(t, active)

	// Render with the same document: the collapsed state is remembered.
	w = do(t, h, "POST", "/panels/"+id+"/render", PanelRequest{Style: json.RawMessage(testStyle)})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodePanel(t, w)
	active, _ = resp.active("Paint properties")
	assert.False(t, active)
	assert.Equal(t, "water", resp.Frame.LayerID)
	assert.Empty(t, resp.Style, "render returns no document")

	// Without Active the group flips.
	w = do(t, h, "POST", "/panels/"+id+"/toggle", ToggleRequest{
		PanelRequest: PanelRequest{Style: json.RawMessage(testStyle)},
		Title:        "Paint properties",
	})
	active, _ = decodePanel(t, w).active("Paint properties")
	assert.True(t, active)
}

func TestEditPanel(t *testing.T) {
	s, h := newTestServer(t)
	id := create(t, h, "water").PanelID

	w := do(t, h, "POST", "/panels/"+id+"/edit", EditRequest{
		PanelRequest: PanelRequest{Style: json.RawMessage(testStyle)},
		Edits:        []FieldEdit{{Path: "paint.fill-opacity", Value: 0.5}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decodePanel(t, w)

	paint := resp.Frame.Layer["paint"].(map[string]any)
	assert.Equal(t, 0.5, paint["fill-opacity"])
	assert.Equal(t, "#00f", paint["fill-color"])
	assert.Contains(t, string(resp.Style), `"fill-opacity":0.5`)
	assert.Equal(t, map[string]any{"paint": map[string]any{"fill-opacity": 0.5}}, resp.Diff["groups"])

	assert.Equal(t, 1, testutil.CollectAndCount(s.Metrics.Edits, "stylepanel_layer_edits_total"))
}

func TestEditPanelCommand(t *testing.T) {
	_, h := newTestServer(t)
	id := create(t, h, "water").PanelID

	w := do(t, h, "POST", "/panels/"+id+"/edit", map[string]any{
		"style":   json.RawMessage(testStyle),
		"command": map[string]string{"name": "id", "args": "lakes"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decodePanel(t, w)
	assert.Equal(t, "lakes", resp.Frame.LayerID)
	assert.Contains(t, string(resp.Style), `"lakes"`)

	t.Run("Duplicate ID", func(t *testing.T) {
		w := do(t, h, "POST", "/panels/"+id+"/edit", map[string]any{
			"style":    json.RawMessage(testStyle),
			"layer_id": "water",
			"command":  map[string]string{"name": "id", "args": "background"},
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Read Command Rejected", func(t *testing.T) {
		w := do(t, h, "POST", "/panels/"+id+"/edit", map[string]any{
			"style":    json.RawMessage(testStyle),
			"layer_id": "water",
			"command":  map[string]string{"name": "show"},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Bad Filter", func(t *testing.T) {
		w := do(t, h, "POST", "/panels/"+id+"/edit", map[string]any{
			"style":    json.RawMessage(testStyle),
			"layer_id": "water",
			"command":  map[string]string{"name": "filter", "args": "[nope"},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestUnknownPanel(t *testing.T) {
	_, h := newTestServer(t)

	w := do(t, h, "POST", "/panels/missing/render", PanelRequest{Style: json.RawMessage(testStyle), LayerID: "water"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeletePanel(t *testing.T) {
	_, h := newTestServer(t)
	id := create(t, h, "water").PanelID

	w := do(t, h, "GET", "/panels", nil)
	assert.Contains(t, w.Body.String(), id)

	w = do(t, h, "DELETE", "/panels/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, "POST", "/panels/"+id+"/render", PanelRequest{Style: json.RawMessage(testStyle)})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Deleting is idempotent.
	w = do(t, h, "DELETE", "/panels/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestSchemaEndpoints(t *testing.T) {
	_, h := newTestServer(t)

	w := do(t, h, "GET", "/schema", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var all struct {
		LayerTypes []string `json:"layer_types"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	assert.Contains(t, all.LayerTypes, "fill")

	w = do(t, h, "GET", "/schema/fill", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var one struct {
		Groups []groupJSON `json:"groups"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &one))
	require.NotEmpty(t, one.Groups)
	assert.Equal(t, "Layer", one.Groups[0].Title)
	assert.Equal(t, "settings", one.Groups[0].Kind)

	w = do(t, h, "GET", "/schema/unicorn", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthAndCORS(t *testing.T) {
	_, h := newTestServer(t)

	w := do(t, h, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w = do(t, h, "OPTIONS", "/panels", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, "GET", "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSubscribeEvents(t *testing.T) {
	s, h := newTestServer(t)
	id := create(t, h, "water").PanelID

	ts := httptest.NewServer(h)
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, "GET", ts.URL+"/panels/"+id+"/events?groups=paint", nil)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	lines := bufio.NewScanner(res.Body)
	require.True(t, lines.Scan())
	assert.Equal(t, "event: ping", lines.Text())

	require.Eventually(t, func() bool { return s.Streams.Subscribers(id) == 1 }, time.Second, 10*time.Millisecond)

	// A top-level edit is filtered out, the paint edit is delivered.
	for _, e := range []FieldEdit{{Path: "minzoom", Value: 3}, {Path: "paint.fill-color", Value: "#f00"}} {
		w := do(t, h, "POST", "/panels/"+id+"/edit", EditRequest{
			PanelRequest: PanelRequest{Style: json.RawMessage(testStyle)},
			Edits:        []FieldEdit{e},
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	var data string
	for lines.Scan() {
		if strings.HasPrefix(lines.Text(), "data: {") {
			data = lines.Text()
			break
		}
	}
	assert.Contains(t, data, `"fill-color":"#f00"`)
	assert.NotContains(t, data, "minzoom")
}

func TestStreamManager(t *testing.T) {
	sm := NewStreamManager()
	ch, cancel := sm.Subscribe("p1")
	assert.Equal(t, 1, sm.Subscribers("p1"))

	sm.Broadcast("p1", "hello")
	sm.Broadcast("p2", "ignored")
	assert.Equal(t, "hello", <-ch)

	cancel()
	cancel()
	assert.Equal(t, 0, sm.Subscribers("p1"))
	_, ok := <-ch
	assert.False(t, ok)
}
