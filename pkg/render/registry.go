package render

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// ErrUnknownRenderer is returned by Lookup for names nothing registered.
var ErrUnknownRenderer = errors.New("render: renderer not found")

// Registry maps output format names (the CLI's --renderer flag, Service.Render)
// to renderers. Names are matched case-insensitively.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Renderer
}

// NewRegistry returns a registry holding renderers.
func NewRegistry(renderers ...Renderer) (*Registry, error) {
	r := &Registry{byName: make(map[string]Renderer, len(renderers))}
	if err := r.Register(renderers...); err != nil {
		return nil, err
	}
	return r, nil
}

// Register adds renderers under their Name. Unlike displayers, a second
// renderer for a taken name is an error and nothing after it is added.
func (r *Registry) Register(renderers ...Renderer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, renderer := range renderers {
		if renderer == nil {
			return errors.New("render: nil renderer")
		}
		key := rendererKey(renderer.Name())
		if key == "" {
			return errors.New("render: renderer has no name")
		}
		if _, taken := r.byName[key]; taken {
			return fmt.Errorf("render: renderer %q registered twice", key)
		}
		r.byName[key] = renderer
	}
	return nil
}

// Lookup returns the renderer registered as name. The error lists the
// available names.
func (r *Registry) Lookup(name string) (Renderer, error) {
	r.mu.RLock()
	renderer, ok := r.byName[rendererKey(name)]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownRenderer, name, strings.Join(r.Names(), ", "))
	}
	return renderer, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byName[rendererKey(name)]
	return ok
}

// Names lists registered renderer names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func rendererKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
