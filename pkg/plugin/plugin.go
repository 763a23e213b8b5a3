// Package plugin defines the contract between hosts and plugin instances.
package plugin

import (
	"github.com/lv2kit/lv2go/pkg/framework/feature"
	"github.com/lv2kit/lv2go/pkg/framework/logging"
	"github.com/lv2kit/lv2go/pkg/framework/port"
	"github.com/lv2kit/lv2go/pkg/framework/process"
	"github.com/lv2kit/lv2go/pkg/framework/property"
	"github.com/lv2kit/lv2go/pkg/framework/urid"
)

// Info contains plugin metadata
type Info struct {
	URI     string // Unique plugin identifier URI
	Name    string // Display name
	Version string // Semantic version (e.g., "1.0.0")
	Vendor  string // Developer name
}

// Host bundles the capabilities a host supplies at instantiation.
// Map and any capability a plugin declares as required must be non-nil;
// a nil Log selects the console fallback.
type Host struct {
	Map          urid.Mapper
	Log          logging.Sink
	RequestValue feature.RequestValue
}

// FromFeatures builds a Host from a feature list, picking out the
// capabilities this framework understands and ignoring the rest.
func FromFeatures(features []feature.Feature) Host {
	var host Host
	for _, f := range features {
		switch f.URI {
		case feature.MapURI:
			if m, ok := f.Data.(urid.Mapper); ok {
				host.Map = m
			}
		case feature.LogURI:
			if s, ok := f.Data.(logging.Sink); ok {
				host.Log = s
			}
		case feature.RequestValueURI:
			if r, ok := f.Data.(feature.RequestValue); ok {
				host.RequestValue = r
			}
		}
	}
	return host
}

// Processor is a constructed plugin instance. Run executes one
// processing cycle on the audio thread and must not block, allocate,
// or perform I/O.
type Processor interface {
	Run(ctx *process.Context)
	Ports() *port.Configuration
	Properties() *property.Registry
}

// Factory constructs a plugin instance for the given sample rate. It
// replaces a descriptor-table entry point: hosts call it directly and a
// returned error means no usable instance exists.
type Factory func(rate float64, host Host) (Processor, error)
