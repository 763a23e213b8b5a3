// Package port describes a plugin's fixed port layout.
//
// A plugin declares its ports once; the index-to-role binding is
// established before processing begins and never renegotiated. Hosts use
// the configuration to know which buffer to hand to which role each cycle.
package port

// MediaType represents the kind of data a port carries.
type MediaType int32

const (
	// MediaTypeAudio represents an audio sample stream.
	MediaTypeAudio MediaType = 0
	// MediaTypeEvent represents a time-ordered control event stream.
	MediaTypeEvent MediaType = 1
)

// Direction represents the port direction.
type Direction int32

const (
	// DirectionInput represents an input port.
	DirectionInput Direction = 0
	// DirectionOutput represents an output port.
	DirectionOutput Direction = 1
)

// Info contains one port's declaration.
type Info struct {
	Index     uint32
	MediaType MediaType
	Direction Direction
	Name      string
}

// Configuration is a plugin's complete, ordered port list.
type Configuration struct {
	ports []Info
}

// Count returns the number of ports.
func (c *Configuration) Count() int {
	return len(c.ports)
}

// Info returns the declaration of the port at index.
func (c *Configuration) Info(index uint32) (*Info, bool) {
	if int(index) >= len(c.ports) {
		return nil, false
	}
	return &c.ports[index], true
}

// Find returns the first port with the given media type and direction.
func (c *Configuration) Find(mediaType MediaType, direction Direction) (*Info, bool) {
	for i := range c.ports {
		if c.ports[i].MediaType == mediaType && c.ports[i].Direction == direction {
			return &c.ports[i], true
		}
	}
	return nil, false
}
