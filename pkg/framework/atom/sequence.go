package atom

import (
	"encoding/binary"

	"github.com/lv2kit/lv2go/pkg/framework/urid"
)

// seqHeaderSize covers the sequence body header: time unit and padding.
const seqHeaderSize = 8

// eventHeaderSize is the 64-bit frame timestamp preceding each event atom.
const eventHeaderSize = 8

// Sequence is a time-ordered series of events read from a control port.
// It is owned by the host and valid for one processing cycle only.
type Sequence struct {
	Unit urid.URID

	events []byte
}

// Event is one timestamped entry of a sequence.
type Event struct {
	Frames int64
	Atom   Atom
}

// ParseSequence decodes the top-level sequence atom in a port buffer.
// seqType is the resolved sequence type identifier; any other top-level
// type is rejected.
func ParseSequence(buf []byte, seqType urid.URID) (*Sequence, error) {
	a, _, ok := readAtom(buf, 0)
	if !ok {
		return nil, ErrBodyTooShort
	}
	if a.Type != seqType {
		return nil, ErrNotSequence
	}
	if len(a.Body) < seqHeaderSize {
		return nil, ErrBodyTooShort
	}

	return &Sequence{
		Unit:   urid.URID(binary.LittleEndian.Uint32(a.Body)),
		events: a.Body[seqHeaderSize:],
	}, nil
}

// Events returns an iterator over the sequence in temporal order.
// Iteration allocates nothing.
func (s *Sequence) Events() Iterator {
	return Iterator{buf: s.events}
}

// Len counts the decodable events in the sequence.
func (s *Sequence) Len() int {
	n := 0
	for it := s.Events(); it.Next(); {
		n++
	}
	return n
}

// Iterator walks a sequence's events. A truncated event ends iteration;
// nothing after the damage is visible.
type Iterator struct {
	buf []byte
	off int
	ev  Event
}

// Next advances to the next event, reporting whether one was decoded.
func (it *Iterator) Next() bool {
	if len(it.buf)-it.off < eventHeaderSize {
		return false
	}

	frames := int64(binary.LittleEndian.Uint64(it.buf[it.off:]))
	a, next, ok := readAtom(it.buf, it.off+eventHeaderSize)
	if !ok {
		return false
	}

	it.ev = Event{Frames: frames, Atom: a}
	it.off = next
	return true
}

// Event returns the event decoded by the last successful Next.
func (it *Iterator) Event() Event {
	return it.ev
}
