// Package atom implements the self-describing, type-tagged binary value
// format carried on control ports.
//
// Every atom is a little-endian header (body size, type identifier)
// followed by the body, padded to 8-byte alignment. Containers (sequences
// of timestamped events, objects of keyed properties) nest atoms inside
// their bodies. The read side never copies: decoded atoms are views into
// the host-owned port buffer, valid only for the current processing cycle.
package atom

import (
	"encoding/binary"
	"errors"
	"unsafe"

	"github.com/lv2kit/lv2go/pkg/framework/urid"
)

// headerSize is the size of an atom header: body size plus type identifier.
const headerSize = 8

var (
	// ErrBodyTooShort reports an atom whose body is smaller than its
	// declared type requires.
	ErrBodyTooShort = errors.New("atom body too short for its type")

	// ErrNotSequence reports a port buffer whose top-level atom is not
	// a sequence.
	ErrNotSequence = errors.New("buffer does not hold a sequence atom")
)

// Atom is a decoded type-tagged value. Body aliases the buffer the atom
// was read from and must not be retained across cycles.
type Atom struct {
	Type urid.URID
	Body []byte
}

// Bool decodes a boolean body (a 32-bit integer, zero meaning false).
// The caller is responsible for checking Type first.
func (a Atom) Bool() (bool, error) {
	if len(a.Body) < 4 {
		return false, ErrBodyTooShort
	}
	return binary.LittleEndian.Uint32(a.Body) != 0, nil
}

// Float decodes a 32-bit floating point body.
func (a Atom) Float() (float32, error) {
	if len(a.Body) < 4 {
		return 0, ErrBodyTooShort
	}
	bits := binary.LittleEndian.Uint32(a.Body)
	return float32frombits(bits), nil
}

// URID decodes an identifier body.
func (a Atom) URID() (urid.URID, error) {
	if len(a.Body) < 4 {
		return 0, ErrBodyTooShort
	}
	return urid.URID(binary.LittleEndian.Uint32(a.Body)), nil
}

// Helper functions for float32 <-> uint32 conversion
func float32bits(f float32) uint32 {
	return *(*uint32)(unsafe.Pointer(&f))
}

func float32frombits(b uint32) float32 {
	return *(*float32)(unsafe.Pointer(&b))
}

// pad rounds n up to 8-byte alignment.
func pad(n int) int {
	return (n + 7) &^ 7
}

// readAtom decodes the atom starting at off. It returns the atom, the
// offset of whatever follows it, and whether the buffer held a complete
// atom. A false return means the remainder of the buffer is unusable;
// iteration stops there rather than panicking mid-cycle.
func readAtom(buf []byte, off int) (Atom, int, bool) {
	if off < 0 || len(buf)-off < headerSize {
		return Atom{}, 0, false
	}

	size := int(binary.LittleEndian.Uint32(buf[off:]))
	typ := urid.URID(binary.LittleEndian.Uint32(buf[off+4:]))

	bodyStart := off + headerSize
	if len(buf)-bodyStart < size {
		return Atom{}, 0, false
	}

	a := Atom{
		Type: typ,
		Body: buf[bodyStart : bodyStart+size],
	}
	return a, bodyStart + pad(size), true
}
