package condition

import (
	"sync"

	"github.com/homectl/rulekeeper/internal/types"
)

// Registry maps condition class ids to their schemas within one provider
// namespace. Registration happens at provider initialization; lookups are
// safe for concurrent callers. The registry is an explicitly constructed,
// passed-in object so tests can use distinct registries per case.
type Registry struct {
	mu      sync.RWMutex
	classes map[string]Class
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{classes: make(map[string]Class)}
}

// NewBuiltinRegistry creates a registry pre-populated with the classes this
// provider publishes.
func NewBuiltinRegistry() *Registry {
	r := NewRegistry()
	for _, c := range BuiltinClasses() {
		// Built-in ids are unique by construction.
		_ = r.Register(c)
	}
	return r
}

// Register adds a class to the registry.
// Returns ErrClassAlreadyRegistered if the id is taken.
func (r *Registry) Register(c Class) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.classes[c.ID]; ok {
		return types.ErrClassAlreadyRegistered
	}
	r.classes[c.ID] = c
	return nil
}

// Lookup returns the class registered under id.
// Returns ErrClassNotFound if absent.
func (r *Registry) Lookup(id string) (Class, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.classes[id]
	if !ok {
		return Class{}, types.ErrClassNotFound
	}
	return c, nil
}

// Contains reports whether id is registered.
func (r *Registry) Contains(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.classes[id]
	return ok
}
