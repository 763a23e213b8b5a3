// Package process provides the per-cycle processing context handed to a
// plugin by its host.
package process

import (
	"github.com/lv2kit/lv2go/pkg/framework/atom"
)

// Context carries one cycle's port data: the audio buffers and the
// control event sequence. The host owns everything in it; nothing may be
// retained across cycles. Processing a context allocates nothing.
type Context struct {
	In  []float32
	Out []float32

	// Events is the cycle's control sequence, nil when the host
	// delivers no control data.
	Events *atom.Sequence
}

// NumSamples returns the number of samples to process
func (c *Context) NumSamples() int {
	if len(c.In) > 0 {
		return len(c.In)
	}
	return len(c.Out)
}

// PassThrough copies input to output. When the host connected both ports
// to the same storage the audio is already in place and nothing is copied.
func (c *Context) PassThrough() {
	if len(c.In) == 0 || len(c.Out) == 0 {
		return
	}
	if &c.In[0] == &c.Out[0] {
		return
	}
	copy(c.Out, c.In)
}
