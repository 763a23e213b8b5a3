// Package property tracks the patchable properties a plugin exposes.
//
// Each property pairs a resolved identifier with the value type it
// expects; the set-message decoder consults the registry to validate
// inbound values before acting on them.
package property

import (
	"sync"

	"github.com/lv2kit/lv2go/pkg/framework/urid"
)

// Property describes one patchable property.
type Property struct {
	URID      urid.URID
	URI       string
	ValueType urid.URID
}

// Registry manages a plugin's properties
type Registry struct {
	props map[urid.URID]*Property
	order []urid.URID // Maintain order for indexed access
	mu    sync.RWMutex
}

// NewRegistry creates a new property registry
func NewRegistry() *Registry {
	return &Registry{
		props: make(map[urid.URID]*Property),
		order: make([]urid.URID, 0),
	}
}

// Add registers new properties
func (r *Registry) Add(props ...*Property) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range props {
		if _, exists := r.props[p.URID]; exists {
			continue // Skip duplicates
		}
		r.props[p.URID] = p
		r.order = append(r.order, p.URID)
	}
}

// Get retrieves a property by identifier
func (r *Registry) Get(id urid.URID) *Property {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.props[id]
}

// GetByIndex retrieves a property by index
func (r *Registry) GetByIndex(index int) *Property {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if index < 0 || index >= len(r.order) {
		return nil
	}

	return r.props[r.order[index]]
}

// Count returns the number of properties
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.order)
}

// All returns all properties in registration order
func (r *Registry) All() []*Property {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Property, len(r.order))
	for i, id := range r.order {
		result[i] = r.props[id]
	}

	return result
}
