package atom

import (
	"encoding/binary"

	"github.com/lv2kit/lv2go/pkg/framework/urid"
)

// objectHeaderSize covers the object identifier and the object type tag.
const objectHeaderSize = 8

// propHeaderSize covers a property's key and context identifiers.
const propHeaderSize = 8

// Object is a decoded structured record: an object type tag and a set of
// keyed, typed member values. Like Atom, it aliases the cycle's buffer.
type Object struct {
	ID    urid.URID
	OType urid.URID

	props []byte
}

// Object interprets the atom body as an object. The caller is responsible
// for checking that Type is the object (or blank) tag first.
func (a Atom) Object() (Object, error) {
	if len(a.Body) < objectHeaderSize {
		return Object{}, ErrBodyTooShort
	}

	return Object{
		ID:    urid.URID(binary.LittleEndian.Uint32(a.Body)),
		OType: urid.URID(binary.LittleEndian.Uint32(a.Body[4:])),
		props: a.Body[objectHeaderSize:],
	}, nil
}

// Property returns the value of the first member with the given key.
// Keys need not be unique in the wire format; only the first occurrence
// is consulted. A truncated member ends the search.
func (o Object) Property(key urid.URID) (Atom, bool) {
	off := 0
	for len(o.props)-off >= propHeaderSize {
		k := urid.URID(binary.LittleEndian.Uint32(o.props[off:]))

		value, next, ok := readAtom(o.props, off+propHeaderSize)
		if !ok {
			return Atom{}, false
		}
		if k == key {
			return value, true
		}
		off = next
	}
	return Atom{}, false
}

// NumProperties counts the decodable members of the object.
func (o Object) NumProperties() int {
	n := 0
	off := 0
	for len(o.props)-off >= propHeaderSize {
		_, next, ok := readAtom(o.props, off+propHeaderSize)
		if !ok {
			break
		}
		n++
		off = next
	}
	return n
}
