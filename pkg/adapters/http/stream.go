package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/aretw0/stylepanel/pkg/domain"
	"github.com/go-chi/chi/v5"
)

// StreamManager fans layer diffs out to the SSE subscribers of a panel.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{} // PanelID -> Set of Channels
	logger      *slog.Logger
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
		logger:      slog.Default(),
	}
}

func (sm *StreamManager) Subscribe(panelID string) (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[panelID]; !ok {
		sm.subscribers[panelID] = make(map[chan<- string]struct{})
	}
	sm.subscribers[panelID][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[panelID]; ok {
			if _, ok := subs[ch]; !ok {
				return
			}
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, panelID)
			}
		}
	}
}

// Subscribers reports the number of live subscriptions of a panel.
func (sm *StreamManager) Subscribers(panelID string) int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers[panelID])
}

func (sm *StreamManager) Broadcast(panelID string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[panelID] {
		select {
		case ch <- msg:
		default:
			// Slow client.
			sm.logger.Warn("SSE: Client buffer full, dropping message", "panel_id", panelID)
		}
	}
}

// SubscribeEvents handles GET /panels/{id}/events (SSE). The optional
// "groups" query parameter keeps only diffs touching the named nested
// groups ("paint,layout"); "top" selects top-level changes.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.Logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	panelID := chi.URLParam(r, "id")
	if _, err := s.Sessions.Load(r.Context(), panelID); err != nil {
		s.fail(w, "SubscribeEvents", err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe(panelID)
	defer cancel()
	s.Logger.Info("SSE: Subscribing to panel updates", "panel_id", panelID)

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	var watch []string
	if q := r.URL.Query().Get("groups"); q != "" {
		for _, g := range strings.Split(q, ",") {
			watch = append(watch, strings.TrimSpace(g))
		}
	}

	for {
		select {
		case <-r.Context().Done():
			s.Logger.Info("SSE Client Disconnected", "panel_id", panelID)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if len(watch) > 0 && !matches(msg, watch) {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func matches(msg string, watch []string) bool {
	var diff domain.LayerDiff
	if err := json.Unmarshal([]byte(msg), &diff); err != nil {
		return true
	}
	for _, g := range watch {
		if g == "top" && len(diff.Changed) > 0 {
			return true
		}
		if _, ok := diff.Groups[g]; ok {
			return true
		}
	}
	return false
}
