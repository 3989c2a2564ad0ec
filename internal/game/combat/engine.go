package combat

import (
	"fmt"
	"sort"
	"sync"
)

// Engine tracks every live Encounter, keyed by session ID.
// All methods are safe for concurrent use; the encounters themselves are not.
type Engine struct {
	mu         sync.RWMutex
	encounters map[string]*Encounter
}

// NewEngine creates an empty combat Engine.
//
// Postcondition: Returns a non-nil Engine ready for use.
func NewEngine() *Engine {
	return &Engine{encounters: make(map[string]*Encounter)}
}

// Start registers enc as the live encounter for sessionID.
//
// Precondition: sessionID must be non-empty; enc must be non-nil.
// Postcondition: Returns an error if the session is already in an encounter.
func (e *Engine) Start(sessionID string, enc *Encounter) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.encounters[sessionID]; exists {
		return fmt.Errorf("session %q already in an encounter", sessionID)
	}
	e.encounters[sessionID] = enc
	return nil
}

// Get returns the live encounter for sessionID.
//
// Postcondition: Returns (enc, true) if found, or (nil, false) otherwise.
func (e *Engine) Get(sessionID string) (*Encounter, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	enc, ok := e.encounters[sessionID]
	return enc, ok
}

// End discards the encounter for sessionID and returns it. Ending an unknown
// session is a no-op.
func (e *Engine) End(sessionID string) (*Encounter, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	enc, ok := e.encounters[sessionID]
	delete(e.encounters, sessionID)
	return enc, ok
}

// Sessions returns the ids of every session in an encounter, sorted.
func (e *Engine) Sessions() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]string, 0, len(e.encounters))
	for id := range e.encounters {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
