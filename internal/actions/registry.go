package actions

import (
	"fmt"
	"sort"
	"sync"
)

// Registry is the enumerable action catalog. Registration happens at
// startup; lookups happen on every dispatch.
type Registry struct {
	mu      sync.RWMutex
	actions map[string]Action
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		actions: make(map[string]Action),
	}
}

// Register adds an action to the catalog. An action with the same name is
// replaced.
func (r *Registry) Register(a Action) error {
	if a == nil || a.Name() == "" {
		return fmt.Errorf("cannot register unnamed action")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions[a.Name()] = a
	return nil
}

// Get returns an action by name, or nil if not registered.
func (r *Registry) Get(name string) Action {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.actions[name]
}

// All returns every registered action ordered by name.
func (r *Registry) All() []Action {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]Action, 0, len(r.actions))
	for _, a := range r.actions {
		all = append(all, a)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Name() < all[j].Name()
	})
	return all
}

// Names returns the registered action names in sorted order.
func (r *Registry) Names() []string {
	all := r.All()
	names := make([]string, len(all))
	for i, a := range all {
		names[i] = a.Name()
	}
	return names
}
