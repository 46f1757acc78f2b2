package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/stylepanel"
	"github.com/aretw0/stylepanel/internal/logging"
	"github.com/aretw0/stylepanel/pkg/domain"
	"github.com/aretw0/stylepanel/pkg/observability"
	"github.com/aretw0/stylepanel/pkg/ports"
	"github.com/aretw0/stylepanel/pkg/runner"
	"github.com/aretw0/stylepanel/pkg/schema"
	"github.com/aretw0/stylepanel/pkg/session"
	"github.com/aretw0/stylepanel/pkg/style"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// DefaultPanelID keys the visibility state when a tool call names no panel.
const DefaultPanelID = "mcp"

// GroupSummary is one rendered group without its editing surface.
type GroupSummary struct {
	Title  string `json:"title" jsonschema_description:"Group title"`
	Kind   string `json:"kind" jsonschema_description:"Editing surface: settings, source, properties or raw"`
	Active bool   `json:"active" jsonschema_description:"Whether the group is expanded"`
}

// PanelResult is the structured result shared by the panel tools.
type PanelResult struct {
	PanelID   string         `json:"panel_id" jsonschema_description:"Key of the saved visibility state"`
	LayerID   string         `json:"layer_id" jsonschema_description:"Id of the edited layer"`
	LayerType string         `json:"layer_type" jsonschema_description:"Type of the edited layer"`
	Groups    []GroupSummary `json:"groups" jsonschema_description:"Rendered groups in order"`
	Markdown  string         `json:"markdown" jsonschema_description:"The panel rendered as markdown"`
	Layer     map[string]any `json:"layer" jsonschema_description:"The current layer value"`
	Style     string         `json:"style,omitempty" jsonschema_description:"The updated style document, set by apply_edit"`
}

// Server exposes panels as MCP tools.
type Server struct {
	schema    ports.SchemaProvider
	sessions  *session.Manager
	metrics   *observability.Metrics
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics records panel activity.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(provider ports.SchemaProvider, sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		schema:    provider,
		sessions:  sessions,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("stylepanel-mcp", strings.TrimSpace(stylepanel.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer exposes the underlying server, e.g. for in-process clients.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves over SSE on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: list_groups
	s.mcpServer.AddTool(mcp.NewTool("list_groups",
		mcp.WithDescription("List the editor groups, their kinds and fields for a layer type. Omit layer_type to list known types."),
		mcp.WithString("layer_type", mcp.Description("Layer type, e.g. fill or line")),
	), s.handleListGroups)

	// TOOL: render_panel
	s.mcpServer.AddTool(mcp.NewTool("render_panel",
		mcp.WithDescription("Render the editor panel for one layer of a style document."),
		mcp.WithString("style", mcp.Required(), mcp.Description("The style document (JSON)")),
		mcp.WithString("layer_id", mcp.Required(), mcp.Description("Id of the layer to edit")),
		mcp.WithString("panel_id", mcp.Description("Key of the saved visibility state (optional)")),
		mcp.WithOutputSchema[PanelResult](),
	), mcp.NewStructuredToolHandler(s.handleRenderPanel))

	// TOOL: apply_edit
	s.mcpServer.AddTool(mcp.NewTool("apply_edit",
		mcp.WithDescription("Edit one layer property and return the updated style document."),
		mcp.WithString("style", mcp.Required(), mcp.Description("The style document (JSON)")),
		mcp.WithString("layer_id", mcp.Required(), mcp.Description("Id of the layer to edit")),
		mcp.WithString("path", mcp.Required(), mcp.Description("Property path: paint.fill-color, minzoom, type, id, source, source-layer or filter")),
		mcp.WithString("value", mcp.Required(), mcp.Description("New value as text; JSON for filters and arrays")),
		mcp.WithString("panel_id", mcp.Description("Key of the saved visibility state (optional)")),
		mcp.WithOutputSchema[PanelResult](),
	), mcp.NewStructuredToolHandler(s.handleApplyEdit))

	// TOOL: toggle_group
	s.mcpServer.AddTool(mcp.NewTool("toggle_group",
		mcp.WithDescription("Expand or collapse a group. Omit active to flip it."),
		mcp.WithString("style", mcp.Required(), mcp.Description("The style document (JSON)")),
		mcp.WithString("layer_id", mcp.Required(), mcp.Description("Id of the layer to edit")),
		mcp.WithString("title", mcp.Required(), mcp.Description("Group title")),
		mcp.WithBoolean("active", mcp.Description("true to expand, false to collapse")),
		mcp.WithString("panel_id", mcp.Description("Key of the saved visibility state (optional)")),
		mcp.WithOutputSchema[PanelResult](),
	), mcp.NewStructuredToolHandler(s.handleToggleGroup))
}

func (s *Server) handleListGroups(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]any)
	layerType, _ := args["layer_type"].(string)

	var payload any
	if layerType == "" {
		payload = map[string][]string{"layer_types": s.schema.LayerTypes()}
	} else {
		groups, ok := s.schema.Groups(layerType)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("%v: %s", domain.ErrSchemaNotFound, layerType)), nil
		}
		payload = map[string]any{"type": layerType, "groups": groups}
	}
	jsonBytes, _ := json.Marshal(payload)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleRenderPanel(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (PanelResult, error) {
	return s.withPanel(ctx, args, func(p *stylepanel.Panel) error { return nil })
}

func (s *Server) handleApplyEdit(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (PanelResult, error) {
	path, _ := args["path"].(string)
	value, _ := args["value"].(string)
	if path == "" {
		return PanelResult{}, errors.New("path is required")
	}

	clean, err := runner.SanitizeInput(value)
	if err != nil {
		s.logger.Warn("MCP apply_edit: Input rejected", "err", err, "size", len(value))
		return PanelResult{}, fmt.Errorf("input rejected: %w", err)
	}

	return s.withPanel(ctx, args, func(p *stylepanel.Panel) error {
		cmd := editCommand(path, clean)
		if _, err := runner.Execute(p, cmd); err != nil {
			return fmt.Errorf("edit failed: %w", err)
		}
		return nil
	})
}

// editCommand maps a property path onto the runner command that edits it.
func editCommand(path, value string) runner.Command {
	switch path {
	case domain.KeyType, domain.KeySource, domain.KeySourceLayer, domain.KeyFilter:
		return runner.Command{Name: path, Args: value}
	case domain.KeyID:
		return runner.Command{Name: "id", Args: value}
	}
	return runner.Command{Name: "set", Args: path + " " + value}
}

func (s *Server) handleToggleGroup(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (PanelResult, error) {
	title, _ := args["title"].(string)
	if title == "" {
		return PanelResult{}, errors.New("title is required")
	}
	return s.withPanel(ctx, args, func(p *stylepanel.Panel) error {
		active, ok := args["active"].(bool)
		if !ok {
			active = !p.State().IsActive(title)
		}
		p.Toggle(title, active)
		return nil
	})
}

// withPanel opens the panel named by args with its saved visibility, runs
// fn and saves the visibility back.
func (s *Server) withPanel(ctx context.Context, args map[string]any, fn func(*stylepanel.Panel) error) (PanelResult, error) {
	raw, _ := args["style"].(string)
	layerID, _ := args["layer_id"].(string)
	panelID, _ := args["panel_id"].(string)
	if panelID == "" {
		panelID = DefaultPanelID
	}

	doc, err := style.Parse([]byte(raw))
	if err != nil {
		return PanelResult{}, err
	}

	var result PanelResult
	_, err = s.sessions.Update(ctx, panelID, func(state *domain.PanelState) error {
		opts := []stylepanel.Option{
			stylepanel.WithSchema(s.schema),
			stylepanel.WithLogger(s.logger),
			stylepanel.WithLifecycleHooks(observability.LoggingHooks(s.logger)),
		}
		if s.metrics != nil {
			opts = append(opts, stylepanel.WithLifecycleHooks(s.metrics.Hooks()))
		}
		if len(state.Groups) > 0 {
			opts = append(opts, stylepanel.WithVisibility(state.Groups))
		}
		p, err := stylepanel.Open(doc, layerID, opts...)
		if err != nil {
			return err
		}
		if err := fn(p); err != nil {
			return err
		}
		state.LayerID = p.LayerID()
		state.Groups = p.State()
		result = newResult(panelID, p)
		if p.Document() != doc {
			result.Style = string(p.Document().Bytes())
		}
		return nil
	})
	return result, err
}

func newResult(panelID string, p *stylepanel.Panel) PanelResult {
	frame := runner.NewFrame(p)
	groups := make([]GroupSummary, len(frame.Groups))
	for i, g := range frame.Groups {
		groups[i] = GroupSummary{Title: g.Title, Kind: string(g.Kind), Active: g.Active}
	}
	return PanelResult{
		PanelID:   panelID,
		LayerID:   frame.LayerID,
		LayerType: frame.LayerType,
		Groups:    groups,
		Markdown:  frame.Markdown(),
		Layer:     frame.Layer,
	}
}

func (s *Server) registerResources() {
	// EXPOSE: stylepanel://schema
	s.mcpServer.AddResource(mcp.NewResource("stylepanel://schema", "Editor layout per layer type",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		layers := make(map[string][]schema.Group)
		for _, t := range s.schema.LayerTypes() {
			layers[t], _ = s.schema.Groups(t)
		}
		jsonBytes, err := json.Marshal(layers)
		if err != nil {
			return nil, fmt.Errorf("failed to encode schema: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "stylepanel://schema",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
