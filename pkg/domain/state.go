package domain

// PanelState is the persisted, per-panel UI state: which groups are expanded.
// It is stored by panel ID so a client can resume a session.
type PanelState struct {
	PanelID string `json:"panel_id"`

	// LayerID is informational: the layer last shown in the panel.
	LayerID string `json:"layer_id,omitempty"`

	// Groups maps group title to expanded (true) or collapsed (false).
	Groups map[string]bool `json:"groups"`
}

// NewPanelState creates an empty state for the given panel.
func NewPanelState(panelID string) *PanelState {
	return &PanelState{
		PanelID: panelID,
		Groups:  make(map[string]bool),
	}
}

// Copy returns a deep copy of the state.
func (s *PanelState) Copy() *PanelState {
	if s == nil {
		return nil
	}
	out := *s
	out.Groups = make(map[string]bool, len(s.Groups))
	for k, v := range s.Groups {
		out.Groups[k] = v
	}
	return &out
}
