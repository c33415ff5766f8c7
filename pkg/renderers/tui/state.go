package tui

import (
	"github.com/goliatone/go-addons/pkg/model"
)

// State records which addon values a session changed, in prompt order.
type State struct {
	order   []model.Identity
	changes map[model.Identity]any
}

// NewState returns an empty state.
func NewState() *State {
	return &State{changes: make(map[model.Identity]any)}
}

// Set records value for id.
func (s *State) Set(id model.Identity, value any) {
	if _, seen := s.changes[id]; !seen {
		s.order = append(s.order, id)
	}
	s.changes[id] = value
}

// Changed reports whether id was edited.
func (s *State) Changed(id model.Identity) bool {
	_, ok := s.changes[id]
	return ok
}

// Len returns the number of edited values.
func (s *State) Len() int {
	return len(s.order)
}

// Identities returns edited identities in prompt order.
func (s *State) Identities() []model.Identity {
	return append([]model.Identity(nil), s.order...)
}
