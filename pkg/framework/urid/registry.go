package urid

import (
	"sync"
)

// Registry is an in-process Mapper. Hosts embed one and hand it to every
// plugin they instantiate; tests use it as a stand-in for the host service.
type Registry struct {
	mu   sync.Mutex
	ids  map[string]URID
	next URID
}

// NewRegistry creates an empty registry. Identifier 0 is never assigned,
// so a zero URID can be used as "unmapped".
func NewRegistry() *Registry {
	return &Registry{
		ids:  make(map[string]URID),
		next: 1,
	}
}

// URID implements Mapper.
func (r *Registry) URID(uri string) URID {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.ids[uri]; ok {
		return id
	}

	id := r.next
	r.next++
	r.ids[uri] = id
	return id
}

// Unmap returns the URI previously mapped to id, or "" if id was never
// assigned. Hosts use this for diagnostics only; it is not on the
// audio path.
func (r *Registry) Unmap(id URID) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	for uri, mapped := range r.ids {
		if mapped == id {
			return uri
		}
	}
	return ""
}

// Count returns the number of mapped URIs.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ids)
}
