// Package urid maps symbolic URIs to process-local integer identifiers.
//
// Hosts expose a mapping service so that plugins can compare URIs with a
// single integer comparison on the audio thread. The identifiers are only
// meaningful within one process instance and must never be persisted or
// compared across processes.
package urid

import (
	"errors"
)

// URID is a process-local integer identifier for a URI.
type URID uint32

// Mapper is the host's URI-to-identifier service.
type Mapper interface {
	// URID returns the identifier for uri, allocating one on first use.
	// The same uri always yields the same identifier for the lifetime
	// of the mapper.
	URID(uri string) URID
}

// Core vocabulary URIs resolved by every plugin at instantiation.
const (
	AtomBlank    = "http://lv2plug.in/ns/ext/atom#Blank"
	AtomObject   = "http://lv2plug.in/ns/ext/atom#Object"
	AtomSequence = "http://lv2plug.in/ns/ext/atom#Sequence"
	AtomURID     = "http://lv2plug.in/ns/ext/atom#URID"
	AtomFloat    = "http://lv2plug.in/ns/ext/atom#Float"
	AtomBool     = "http://lv2plug.in/ns/ext/atom#Bool"

	PatchSet      = "http://lv2plug.in/ns/ext/patch#Set"
	PatchProperty = "http://lv2plug.in/ns/ext/patch#property"
	PatchValue    = "http://lv2plug.in/ns/ext/patch#value"
)

// ErrNoMapper is returned when a plugin is instantiated without a
// URI mapping service. Nothing else works without one.
var ErrNoMapper = errors.New("host does not provide a URI mapping service")

// Table holds the resolved identifiers for the core vocabulary. It is
// populated once at instantiation and read-only afterwards.
type Table struct {
	AtomBlank    URID
	AtomObject   URID
	AtomSequence URID
	AtomURID     URID
	AtomFloat    URID
	AtomBool     URID

	PatchSet      URID
	PatchProperty URID
	PatchValue    URID
}

// Resolve maps the core vocabulary through m. It fails when m is nil;
// callers treat that as a fatal instantiation error.
func Resolve(m Mapper) (Table, error) {
	if m == nil {
		return Table{}, ErrNoMapper
	}

	return Table{
		AtomBlank:    m.URID(AtomBlank),
		AtomObject:   m.URID(AtomObject),
		AtomSequence: m.URID(AtomSequence),
		AtomURID:     m.URID(AtomURID),
		AtomFloat:    m.URID(AtomFloat),
		AtomBool:     m.URID(AtomBool),

		PatchSet:      m.URID(PatchSet),
		PatchProperty: m.URID(PatchProperty),
		PatchValue:    m.URID(PatchValue),
	}, nil
}
