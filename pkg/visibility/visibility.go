// Package visibility tracks which schema groups of a panel are expanded.
//
// State is keyed by group title so it survives layer-type changes: a group
// collapsed while editing a fill layer stays collapsed after switching the
// layer to line and back. All functions are pure and return a new State.
package visibility

import "sort"

// State maps a group title to expanded (true) or collapsed (false).
type State map[string]bool

// Initialize seeds every title as expanded.
func Initialize(titles []string) State {
	s := make(State, len(titles))
	for _, t := range titles {
		s[t] = true
	}
	return s
}

// Reconcile adds every title not yet known, expanded.
// Known titles keep their value, including titles absent from titles:
// the key set only grows.
func Reconcile(s State, titles []string) State {
	out := s.Copy()
	for _, t := range titles {
		if _, ok := out[t]; !ok {
			out[t] = true
		}
	}
	return out
}

// Toggle sets the expansion of title, inserting it if unknown.
func Toggle(s State, title string, active bool) State {
	out := s.Copy()
	out[title] = active
	return out
}

// IsActive reports whether title is expanded. Unknown titles are expanded.
func (s State) IsActive(title string) bool {
	active, ok := s[title]
	return !ok || active
}

// Copy returns an independent copy. A nil state copies to an empty one.
func (s State) Copy() State {
	out := make(State, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Titles returns the known titles sorted by name.
func (s State) Titles() []string {
	titles := make([]string, 0, len(s))
	for t := range s {
		titles = append(titles, t)
	}
	sort.Strings(titles)
	return titles
}
