package port

import (
	"fmt"
)

// Builder provides a fluent API for declaring port layouts.
type Builder struct {
	config *Configuration
	errors []error
}

// NewBuilder creates a new port layout builder.
func NewBuilder() *Builder {
	return &Builder{
		config: &Configuration{},
	}
}

// WithEventInput adds a control event input port.
func (b *Builder) WithEventInput(name string) *Builder {
	return b.add(MediaTypeEvent, DirectionInput, name)
}

// WithEventOutput adds a control event output port.
func (b *Builder) WithEventOutput(name string) *Builder {
	return b.add(MediaTypeEvent, DirectionOutput, name)
}

// WithAudioInput adds an audio input port.
func (b *Builder) WithAudioInput(name string) *Builder {
	return b.add(MediaTypeAudio, DirectionInput, name)
}

// WithAudioOutput adds an audio output port.
func (b *Builder) WithAudioOutput(name string) *Builder {
	return b.add(MediaTypeAudio, DirectionOutput, name)
}

func (b *Builder) add(mediaType MediaType, direction Direction, name string) *Builder {
	if name == "" {
		b.errors = append(b.errors, fmt.Errorf("port %d has no name", len(b.config.ports)))
		return b
	}

	b.config.ports = append(b.config.ports, Info{
		Index:     uint32(len(b.config.ports)),
		MediaType: mediaType,
		Direction: direction,
		Name:      name,
	})
	return b
}

// Build returns the configuration, or the first declaration error.
func (b *Builder) Build() (*Configuration, error) {
	if len(b.errors) > 0 {
		return nil, b.errors[0]
	}
	if len(b.config.ports) == 0 {
		return nil, fmt.Errorf("port layout is empty")
	}
	return b.config, nil
}

// MustBuild is Build for statically known layouts; it panics on a
// declaration error.
func (b *Builder) MustBuild() *Configuration {
	config, err := b.Build()
	if err != nil {
		panic(err)
	}
	return config
}
