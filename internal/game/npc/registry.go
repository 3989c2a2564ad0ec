package npc

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownTemplate is returned when a template id is not registered.
var ErrUnknownTemplate = errors.New("unknown enemy template")

// Registry indexes enemy templates by ID and resolves unknown ids to a
// fallback template.
type Registry struct {
	templates map[string]*Template
	fallback  string
}

// NewRegistry indexes templates and designates fallbackID as the template
// returned for unknown ids.
//
// Postcondition: returns an error on duplicate ids or an unregistered fallback.
func NewRegistry(templates []*Template, fallbackID string) (*Registry, error) {
	r := &Registry{templates: make(map[string]*Template, len(templates)), fallback: fallbackID}
	for _, t := range templates {
		if _, dup := r.templates[t.ID]; dup {
			return nil, fmt.Errorf("enemy template %q registered twice", t.ID)
		}
		r.templates[t.ID] = t
	}
	if _, ok := r.templates[fallbackID]; !ok {
		return nil, fmt.Errorf("fallback %w %q", ErrUnknownTemplate, fallbackID)
	}
	return r, nil
}

// LoadRegistry loads every template in dir into a Registry.
func LoadRegistry(dir, fallbackID string) (*Registry, error) {
	templates, err := LoadTemplates(dir)
	if err != nil {
		return nil, err
	}
	return NewRegistry(templates, fallbackID)
}

// Get returns the template for id.
func (r *Registry) Get(id string) (*Template, bool) {
	t, ok := r.templates[id]
	return t, ok
}

// GetOrFallback returns the template for id, or the fallback template when id
// is unknown. found reports whether id itself was registered.
func (r *Registry) GetOrFallback(id string) (tmpl *Template, found bool) {
	if t, ok := r.templates[id]; ok {
		return t, true
	}
	return r.templates[r.fallback], false
}

// IDs returns every registered template ID in sorted order.
func (r *Registry) IDs() []string {
	out := make([]string, 0, len(r.templates))
	for id := range r.templates {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
