package reqval

import (
	"github.com/lv2kit/lv2go/pkg/framework/atom"
	"github.com/lv2kit/lv2go/pkg/framework/patch"
)

// dispatch walks the cycle's control sequence in temporal order and
// routes recognized set messages to the decoder. Events of any other
// shape are skipped; no event ever aborts the loop.
func (p *Processor) dispatch(seq *atom.Sequence) {
	for it := seq.Events(); it.Next(); {
		ev := it.Event()

		// Blank is the deprecated spelling of the object tag that
		// older hosts still emit.
		if ev.Atom.Type != p.uris.AtomObject && ev.Atom.Type != p.uris.AtomBlank {
			continue
		}

		obj, err := ev.Atom.Object()
		if err != nil {
			p.logger.Warnf("discarding unreadable object event: %v", err)
			continue
		}
		if obj.OType != p.uris.PatchSet {
			continue
		}

		p.handleSet(obj)
	}
}

// handleSet decodes one set message and acts on the assignment if both
// the property and its value type are recognized. Every failure is local
// to the event: logged, discarded, and the cycle continues.
func (p *Processor) handleSet(obj atom.Object) {
	set, err := patch.ParseSet(obj, p.uris.Table)
	if err != nil {
		p.logger.Errorf("%v", err)
		return
	}

	prop := p.props.Get(set.Property)
	if prop == nil {
		p.logger.Errorf("%v (identifier %d)", patch.ErrUnknownProperty, set.Property)
		return
	}
	if set.Value.Type != prop.ValueType {
		p.logger.Errorf("%v: %s expects type %d, got %d",
			patch.ErrTypeMismatch, prop.URI, prop.ValueType, set.Value.Type)
		return
	}

	value, err := set.Value.Bool()
	if err != nil {
		p.logger.Errorf("discarding %s: %v", prop.URI, err)
		return
	}

	switch set.Property {
	case p.uris.boolTest:
		p.logger.Infof("received boolean = %v", value)
		if p.onBool != nil {
			p.onBool(value)
		}
	case p.uris.ackTest:
		p.logger.Infof("dialog acknowledged = %v", value)
		if p.onAck != nil {
			p.onAck(value)
		}
	}
}
