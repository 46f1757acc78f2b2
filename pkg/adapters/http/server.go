package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/stylepanel"
	"github.com/aretw0/stylepanel/internal/logging"
	"github.com/aretw0/stylepanel/pkg/domain"
	"github.com/aretw0/stylepanel/pkg/observability"
	"github.com/aretw0/stylepanel/pkg/ports"
	"github.com/aretw0/stylepanel/pkg/runner"
	"github.com/aretw0/stylepanel/pkg/schema"
	"github.com/aretw0/stylepanel/pkg/session"
	"github.com/aretw0/stylepanel/pkg/style"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// errBadEdit marks an edit the panel rejected.
var errBadEdit = errors.New("edit rejected")

// Server serves panels over HTTP.
//
// The style document travels with every request: the client owns it and
// receives the updated document back from /edit. The server keeps only the
// visibility state of each panel, under its panel ID.
type Server struct {
	Schema   ports.SchemaProvider
	Sessions *session.Manager
	Metrics  *observability.Metrics
	Streams  *StreamManager
	Logger   *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics records panel activity and exposes GET /metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) {
		s.Metrics = m
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// NewServer creates a Server.
func NewServer(provider ports.SchemaProvider, sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		Schema:   provider,
		Sessions: sessions,
		Streams:  NewStreamManager(),
		Logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewHandler creates the HTTP handler for a panel server.
func NewHandler(provider ports.SchemaProvider, sessions *session.Manager, opts ...Option) http.Handler {
	return NewServer(provider, sessions, opts...).Routes()
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/schema", s.GetSchema)
	r.Get("/schema/{type}", s.GetLayerSchema)
	if s.Metrics != nil {
		r.Handle("/metrics", s.Metrics.Handler())
	}

	r.Route("/panels", func(r chi.Router) {
		r.Get("/", s.ListPanels)
		r.Post("/", s.CreatePanel)
		r.Delete("/{id}", s.DeletePanel)
		r.Post("/{id}/render", s.RenderPanel)
		r.Post("/{id}/toggle", s.TogglePanel)
		r.Post("/{id}/edit", s.EditPanel)
		r.Get("/{id}/events", s.SubscribeEvents)
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// PanelRequest carries the document and the layer to edit.
// LayerID may be omitted after creation; the panel remembers its last layer.
type PanelRequest struct {
	Style   json.RawMessage `json:"style"`
	LayerID string          `json:"layer_id,omitempty"`
}

// ToggleRequest expands or collapses one group. A missing Active flips it.
type ToggleRequest struct {
	PanelRequest
	Title  string `json:"title"`
	Active *bool  `json:"active,omitempty"`
}

// FieldEdit sets the property at Path ("paint.fill-color", "minzoom").
type FieldEdit struct {
	Path  string `json:"path"`
	Value any    `json:"value"`
}

// EditRequest applies typed field edits, then an optional runner command
// (e.g. {"name":"id","args":"water-2"}).
type EditRequest struct {
	PanelRequest
	Edits   []FieldEdit     `json:"edits,omitempty"`
	Command *runner.Command `json:"command,omitempty"`
}

// PanelResponse is returned by every panel endpoint.
type PanelResponse struct {
	PanelID string            `json:"panel_id"`
	Frame   *runner.Frame     `json:"frame"`
	Diff    *domain.LayerDiff `json:"diff,omitempty"`
	Style   json.RawMessage   `json:"style,omitempty"`
}

// CreatePanel handles POST /panels.
func (s *Server) CreatePanel(w http.ResponseWriter, r *http.Request) {
	var body PanelRequest
	if !s.decode(w, r, "CreatePanel", &body) {
		return
	}
	doc, err := style.Parse(body.Style)
	if err != nil {
		s.fail(w, "CreatePanel", err)
		return
	}
	p, err := s.open(doc, body.LayerID, nil)
	if err != nil {
		s.fail(w, "CreatePanel", err)
		return
	}

	id := uuid.NewString()
	state := domain.NewPanelState(id)
	state.LayerID = p.LayerID()
	state.Groups = p.State()
	if err := s.Sessions.Save(r.Context(), id, state); err != nil {
		s.fail(w, "CreatePanel", err)
		return
	}
	s.Logger.Info("Panel created", "panel_id", id, "layer_id", state.LayerID)

	s.respond(w, "CreatePanel", http.StatusCreated, PanelResponse{PanelID: id, Frame: runner.NewFrame(p)})
}

// ListPanels handles GET /panels.
func (s *Server) ListPanels(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		s.fail(w, "ListPanels", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.respond(w, "ListPanels", http.StatusOK, map[string][]string{"panels": ids})
}

// DeletePanel handles DELETE /panels/{id}.
func (s *Server) DeletePanel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Sessions.Delete(r.Context(), id); err != nil {
		s.fail(w, "DeletePanel", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RenderPanel handles POST /panels/{id}/render.
func (s *Server) RenderPanel(w http.ResponseWriter, r *http.Request) {
	var body PanelRequest
	if !s.decode(w, r, "RenderPanel", &body) {
		return
	}
	resp, err := s.withPanel(r, body, func(p *stylepanel.Panel) error { return nil })
	if err != nil {
		s.fail(w, "RenderPanel", err)
		return
	}
	s.respond(w, "RenderPanel", http.StatusOK, resp)
}

// TogglePanel handles POST /panels/{id}/toggle.
func (s *Server) TogglePanel(w http.ResponseWriter, r *http.Request) {
	var body ToggleRequest
	if !s.decode(w, r, "TogglePanel", &body) {
		return
	}
	if body.Title == "" {
		http.Error(w, "Missing group title", http.StatusBadRequest)
		return
	}
	resp, err := s.withPanel(r, body.PanelRequest, func(p *stylepanel.Panel) error {
		active := !p.State().IsActive(body.Title)
		if body.Active != nil {
			active = *body.Active
		}
		p.Toggle(body.Title, active)
		return nil
	})
	if err != nil {
		s.fail(w, "TogglePanel", err)
		return
	}
	s.respond(w, "TogglePanel", http.StatusOK, resp)
}

// EditPanel handles POST /panels/{id}/edit. The response carries the updated
// document and the layer diff, which is also broadcast to subscribers.
func (s *Server) EditPanel(w http.ResponseWriter, r *http.Request) {
	var body EditRequest
	if !s.decode(w, r, "EditPanel", &body) {
		return
	}
	if body.Command != nil {
		if !body.Command.Mutating() {
			http.Error(w, fmt.Sprintf("Command %q does not edit the layer", body.Command.Name), http.StatusBadRequest)
			return
		}
		clean, err := runner.SanitizeInput(body.Command.Args)
		if err != nil {
			http.Error(w, fmt.Sprintf("Invalid input: %v", err), http.StatusBadRequest)
			s.Logger.Warn("EditPanel: Input rejected", "err", err, "size", len(body.Command.Args))
			return
		}
		body.Command.Args = clean
	}

	var before domain.Layer
	resp, err := s.withPanel(r, body.PanelRequest, func(p *stylepanel.Panel) error {
		before = p.Layer()
		for _, e := range body.Edits {
			if err := p.Set(e.Path, e.Value); err != nil {
				return fmt.Errorf("%w: %s: %w", errBadEdit, e.Path, err)
			}
		}
		if body.Command != nil {
			if _, err := runner.Execute(p, *body.Command); err != nil {
				return fmt.Errorf("%w: %w", errBadEdit, err)
			}
		}
		return nil
	})
	if err != nil {
		s.fail(w, "EditPanel", err)
		return
	}

	resp.Diff = domain.Diff(before, resp.Frame.Layer)
	if resp.Diff != nil {
		s.Logger.Debug("EditPanel: Diff calculated", "diff", resp.Diff, "panel_id", resp.PanelID)
		if bytes, err := json.Marshal(resp.Diff); err == nil {
			s.Streams.Broadcast(resp.PanelID, string(bytes))
		}
	}
	s.respond(w, "EditPanel", http.StatusOK, resp)
}

// GetSchema handles GET /schema.
func (s *Server) GetSchema(w http.ResponseWriter, r *http.Request) {
	types := s.Schema.LayerTypes()
	layers := make(map[string][]schema.Group, len(types))
	for _, t := range types {
		groups, _ := s.Schema.Groups(t)
		layers[t] = groups
	}
	s.respond(w, "GetSchema", http.StatusOK, map[string]any{
		"layer_types": types,
		"layers":      layers,
	})
}

// GetLayerSchema handles GET /schema/{type}.
func (s *Server) GetLayerSchema(w http.ResponseWriter, r *http.Request) {
	layerType := chi.URLParam(r, "type")
	groups, ok := s.Schema.Groups(layerType)
	if !ok {
		http.Error(w, fmt.Sprintf("%v: %s", domain.ErrSchemaNotFound, layerType), http.StatusNotFound)
		return
	}
	s.respond(w, "GetLayerSchema", http.StatusOK, map[string]any{
		"type":   layerType,
		"groups": groups,
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.respond(w, "GetHealth", http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.respond(w, "GetInfo", http.StatusOK, map[string]any{
		"app":         "stylepanel-http",
		"version":     strings.TrimSpace(stylepanel.Version),
		"layer_types": s.Schema.LayerTypes(),
	})
}

// withPanel opens the panel on the request document with its saved
// visibility, runs fn, and saves the resulting visibility.
func (s *Server) withPanel(r *http.Request, body PanelRequest, fn func(*stylepanel.Panel) error) (PanelResponse, error) {
	id := chi.URLParam(r, "id")
	resp := PanelResponse{PanelID: id}

	// Update starts unknown panels empty; panels must be created first.
	if _, err := s.Sessions.Load(r.Context(), id); err != nil {
		return resp, err
	}
	doc, err := style.Parse(body.Style)
	if err != nil {
		return resp, err
	}

	_, err = s.Sessions.Update(r.Context(), id, func(state *domain.PanelState) error {
		layerID := body.LayerID
		if layerID == "" {
			layerID = state.LayerID
		}
		p, err := s.open(doc, layerID, state.Groups)
		if err != nil {
			return err
		}
		if err := fn(p); err != nil {
			return err
		}
		state.LayerID = p.LayerID()
		state.Groups = p.State()
		resp.Frame = runner.NewFrame(p)
		if p.Document() != doc {
			resp.Style = p.Document().Bytes()
		}
		return nil
	})
	return resp, err
}

func (s *Server) open(doc *style.Document, layerID string, groups map[string]bool) (*stylepanel.Panel, error) {
	if layerID == "" {
		return nil, fmt.Errorf("%w: missing layer_id", domain.ErrInvalidLayer)
	}
	opts := []stylepanel.Option{
		stylepanel.WithSchema(s.Schema),
		stylepanel.WithLogger(s.Logger),
		stylepanel.WithLifecycleHooks(observability.LoggingHooks(s.Logger)),
	}
	if s.Metrics != nil {
		opts = append(opts, stylepanel.WithLifecycleHooks(s.Metrics.Hooks()))
	}
	if groups != nil {
		opts = append(opts, stylepanel.WithVisibility(groups))
	}
	return stylepanel.Open(doc, layerID, opts...)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, op string, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.Logger.Warn(op+": Invalid request body", "err", err)
		return false
	}
	return true
}

func (s *Server) respond(w http.ResponseWriter, op string, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error(op+" response encode failed", "err", err)
	}
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.Logger.Error(op+" failed", "err", err)
	} else {
		s.Logger.Warn(op+" rejected", "err", err)
	}
	http.Error(w, err.Error(), status)
}

func statusFor(err error) int {
	switch {
	case stylepanel.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateLayerID):
		return http.StatusConflict
	case errors.Is(err, errBadEdit),
		errors.Is(err, domain.ErrInvalidStyle),
		errors.Is(err, domain.ErrInvalidLayer):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
