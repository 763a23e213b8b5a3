package atom

import (
	"encoding/binary"

	"github.com/lv2kit/lv2go/pkg/framework/urid"
)

// Forge assembles atom buffers the way a host writes them into a control
// port before handing the cycle to a plugin. Containers are opened with
// Begin*, filled, and closed with End, which backpatches the container's
// size header. The forge is a writer for the non-real-time side (hosts,
// tests); plugins only ever read.
type Forge struct {
	uris urid.Table
	buf  []byte
	open []int
}

// NewForge creates a forge writing with the given resolved vocabulary.
func NewForge(uris urid.Table) *Forge {
	return &Forge{uris: uris}
}

// Reset discards all forged data so the forge can be reused.
func (f *Forge) Reset() {
	f.buf = f.buf[:0]
	f.open = f.open[:0]
}

// Bytes returns the forged buffer. All containers must have been closed.
func (f *Forge) Bytes() []byte {
	return f.buf
}

// BeginSequence opens a top-level sequence atom. unit is the sequence's
// time unit identifier (zero for audio frames).
func (f *Forge) BeginSequence(unit urid.URID) {
	f.begin(f.uris.AtomSequence)
	f.appendUint32(uint32(unit))
	f.appendUint32(0) // reserved
}

// FrameTime writes the timestamp header of the next event. Valid only
// inside a sequence, between events.
func (f *Forge) FrameTime(frames int64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(frames))
	f.buf = append(f.buf, b[:]...)
}

// BeginObject opens an object atom with the given identifier and
// object type tag.
func (f *Forge) BeginObject(id, otype urid.URID) {
	f.begin(f.uris.AtomObject)
	f.appendUint32(uint32(id))
	f.appendUint32(uint32(otype))
}

// BeginBlank is BeginObject with the deprecated blank type tag, which
// older hosts still emit.
func (f *Forge) BeginBlank(id, otype urid.URID) {
	f.begin(f.uris.AtomBlank)
	f.appendUint32(uint32(id))
	f.appendUint32(uint32(otype))
}

// Key writes the member header for the next value written into an
// open object.
func (f *Forge) Key(key urid.URID) {
	f.appendUint32(uint32(key))
	f.appendUint32(0) // context
}

// Bool writes a boolean atom.
func (f *Forge) Bool(v bool) {
	var body uint32
	if v {
		body = 1
	}
	f.primitive(f.uris.AtomBool, body)
}

// Float writes a 32-bit floating point atom.
func (f *Forge) Float(v float32) {
	f.primitive(f.uris.AtomFloat, float32bits(v))
}

// URID writes an identifier atom.
func (f *Forge) URID(v urid.URID) {
	f.primitive(f.uris.AtomURID, uint32(v))
}

// RawAtom writes an atom with an arbitrary type tag and body. Tests use
// it to construct shapes a well-behaved host would not produce.
func (f *Forge) RawAtom(typ urid.URID, body []byte) {
	f.appendUint32(uint32(len(body)))
	f.appendUint32(uint32(typ))
	f.buf = append(f.buf, body...)
	f.pad()
}

// End closes the innermost open container, backpatching its size.
func (f *Forge) End() {
	if len(f.open) == 0 {
		return
	}

	hdr := f.open[len(f.open)-1]
	f.open = f.open[:len(f.open)-1]

	size := len(f.buf) - hdr - headerSize
	binary.LittleEndian.PutUint32(f.buf[hdr:], uint32(size))
	f.pad()
}

func (f *Forge) begin(typ urid.URID) {
	f.open = append(f.open, len(f.buf))
	f.appendUint32(0) // size, patched by End
	f.appendUint32(uint32(typ))
}

func (f *Forge) primitive(typ urid.URID, body uint32) {
	f.appendUint32(4)
	f.appendUint32(uint32(typ))
	f.appendUint32(body)
	f.pad()
}

func (f *Forge) appendUint32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	f.buf = append(f.buf, b[:]...)
}

func (f *Forge) pad() {
	for len(f.buf)%8 != 0 {
		f.buf = append(f.buf, 0)
	}
}
