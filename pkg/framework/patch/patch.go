// Package patch decodes property-set messages from object events.
//
// A set message is an object whose type tag is the patch set tag, carrying
// two members: the target property (typed as an identifier) and the new
// value (typed per property). Everything else about the object is ignored.
package patch

import (
	"errors"

	"github.com/lv2kit/lv2go/pkg/framework/atom"
	"github.com/lv2kit/lv2go/pkg/framework/urid"
)

// Decode failures are classified so callers can log precisely and move on.
// None of these is ever fatal to a processing cycle: the offending event
// is discarded and the stream continues.
var (
	// ErrNoBody reports a set message without a property member.
	ErrNoBody = errors.New("set message has no body")

	// ErrNonIdentifierProperty reports a property member that is not
	// typed as an identifier.
	ErrNonIdentifierProperty = errors.New("set message has non-identifier property")

	// ErrNoValue reports a set message without a value member.
	ErrNoValue = errors.New("set message has no value")

	// ErrTypeMismatch reports a value whose declared type disagrees
	// with what the target property expects.
	ErrTypeMismatch = errors.New("set message value has unexpected type")

	// ErrUnknownProperty reports a well-formed set message naming a
	// property the receiver does not recognize.
	ErrUnknownProperty = errors.New("set message for unknown property")
)

// Set is a decoded property-set message: the target property identifier
// and its new value, still type-tagged. The value atom aliases the
// cycle's buffer.
type Set struct {
	Property urid.URID
	Value    atom.Atom
}

// ParseSet extracts the (property, value) pair from an object already
// confirmed to carry the set type tag. Shape defects are reported with
// the classified errors above; the value's per-property type check is
// the caller's job, since only the receiver knows what each property
// expects.
func ParseSet(obj atom.Object, uris urid.Table) (Set, error) {
	prop, ok := obj.Property(uris.PatchProperty)
	if !ok {
		return Set{}, ErrNoBody
	}
	if prop.Type != uris.AtomURID {
		return Set{}, ErrNonIdentifierProperty
	}

	val, ok := obj.Property(uris.PatchValue)
	if !ok {
		return Set{}, ErrNoValue
	}

	id, err := prop.URID()
	if err != nil {
		return Set{}, ErrNonIdentifierProperty
	}

	return Set{Property: id, Value: val}, nil
}
