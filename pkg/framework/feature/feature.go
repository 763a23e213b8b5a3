// Package feature defines the capability records exchanged between host
// and plugin at instantiation and inside value requests.
package feature

import (
	"github.com/lv2kit/lv2go/pkg/framework/urid"
)

// Capability URIs.
const (
	// MapURI names the host's URI mapping service.
	MapURI = "http://lv2plug.in/ns/ext/urid#map"

	// LogURI names the host's diagnostic sink.
	LogURI = "http://lv2plug.in/ns/ext/log#log"

	// RequestValueURI names the host capability for soliciting a
	// property value from the user.
	RequestValueURI = "http://lv2plug.in/ns/extensions/ui#requestValue"

	// DialogMessageURI names the record a plugin attaches to a value
	// request to customize the host's dialog.
	DialogMessageURI = "http://lv2kit.org/ns/lv2go/ext/dialog_message"
)

// Feature pairs a capability URI with its implementation. Hosts pass
// features to plugins at instantiation; plugins pass features back to the
// host inside a value request.
type Feature struct {
	URI  string
	Data any
}

// Find returns the data of the first feature with the given URI.
func Find(features []Feature, uri string) (any, bool) {
	for _, f := range features {
		if f.URI == uri {
			return f.Data, true
		}
	}
	return nil, false
}

// RequestValue is the host capability that asks the user for a property
// value, typically via a dialog. Request returns immediately; the host
// performs the interaction on its own thread and delivers the result
// out-of-band, as a property-set event on a later cycle.
type RequestValue interface {
	Request(property, valueType urid.URID, features []Feature) error
}

// DialogMessage customizes the host's value dialog. The side that
// finishes with the message last calls Release exactly once; a plugin
// whose message is a static constant supplies a no-op.
type DialogMessage struct {
	Message        string
	RequiresReturn bool
	Release        func()
}
