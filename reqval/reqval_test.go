package reqval

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lv2kit/lv2go/pkg/framework/atom"
	"github.com/lv2kit/lv2go/pkg/framework/feature"
	"github.com/lv2kit/lv2go/pkg/framework/logging"
	"github.com/lv2kit/lv2go/pkg/framework/patch"
	"github.com/lv2kit/lv2go/pkg/framework/port"
	"github.com/lv2kit/lv2go/pkg/framework/process"
	"github.com/lv2kit/lv2go/pkg/framework/urid"
	"github.com/lv2kit/lv2go/pkg/plugin"
)

type requestCall struct {
	property  urid.URID
	valueType urid.URID
	features  []feature.Feature
}

type requestRecorder struct {
	calls []requestCall
	err   error
}

func (r *requestRecorder) Request(property, valueType urid.URID, features []feature.Feature) error {
	r.calls = append(r.calls, requestCall{property, valueType, features})
	return r.err
}

type captureSink struct {
	levels   []logging.Level
	messages []string
}

func (c *captureSink) Log(level logging.Level, msg string) {
	c.levels = append(c.levels, level)
	c.messages = append(c.messages, msg)
}

func (c *captureSink) contains(substr string) bool {
	for _, m := range c.messages {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}

type testRig struct {
	proc     *Processor
	mapper   *urid.Registry
	recorder *requestRecorder
	sink     *captureSink
	uris     urid.Table
}

func newTestRig(t *testing.T, rate float64) *testRig {
	t.Helper()

	mapper := urid.NewRegistry()
	recorder := &requestRecorder{}
	sink := &captureSink{}

	proc, err := New(rate, plugin.Host{
		Map:          mapper,
		Log:          sink,
		RequestValue: recorder,
	})
	require.NoError(t, err)

	uris, err := urid.Resolve(mapper)
	require.NoError(t, err)

	return &testRig{proc: proc, mapper: mapper, recorder: recorder, sink: sink, uris: uris}
}

// forgeSequence builds a control sequence holding a single event.
func (r *testRig) forgeSequence(t *testing.T, build func(f *atom.Forge)) *atom.Sequence {
	t.Helper()

	f := atom.NewForge(r.uris)
	f.BeginSequence(0)
	build(f)
	f.End()

	seq, err := atom.ParseSequence(f.Bytes(), r.uris.AtomSequence)
	require.NoError(t, err)
	return seq
}

// forgeSet builds a well-formed set message for the named property.
func (r *testRig) forgeSet(t *testing.T, propertyURI string, value bool) *atom.Sequence {
	t.Helper()

	return r.forgeSequence(t, func(f *atom.Forge) {
		f.FrameTime(0)
		f.BeginObject(0, r.uris.PatchSet)
		f.Key(r.uris.PatchProperty)
		f.URID(r.mapper.URID(propertyURI))
		f.Key(r.uris.PatchValue)
		f.Bool(value)
		f.End()
	})
}

// runSamples feeds n silent samples through the processor.
func (r *testRig) runSamples(n int) {
	buf := make([]float32, n)
	r.proc.Run(&process.Context{In: buf, Out: buf})
}

func TestNewWithoutRequestValue(t *testing.T) {
	_, err := New(48000, plugin.Host{
		Map: urid.NewRegistry(),
		Log: &captureSink{},
	})
	assert.ErrorIs(t, err, ErrNoRequestValue)
}

func TestNewWithoutMapper(t *testing.T) {
	_, err := New(48000, plugin.Host{
		Log:          &captureSink{},
		RequestValue: &requestRecorder{},
	})
	assert.ErrorIs(t, err, urid.ErrNoMapper)
}

func TestPortsAndProperties(t *testing.T) {
	rig := newTestRig(t, 48000)

	ports := rig.proc.Ports()
	require.Equal(t, 3, ports.Count())

	control, ok := ports.Info(0)
	require.True(t, ok)
	assert.Equal(t, port.MediaTypeEvent, control.MediaType)
	assert.Equal(t, port.DirectionInput, control.Direction)

	in, ok := ports.Info(1)
	require.True(t, ok)
	assert.Equal(t, port.MediaTypeAudio, in.MediaType)
	assert.Equal(t, port.DirectionInput, in.Direction)

	out, ok := ports.Info(2)
	require.True(t, ok)
	assert.Equal(t, port.MediaTypeAudio, out.MediaType)
	assert.Equal(t, port.DirectionOutput, out.Direction)

	require.Equal(t, 2, rig.proc.Properties().Count())
	assert.Equal(t, "Request Value", Info().Name)
}

func TestAudioPassThrough(t *testing.T) {
	rig := newTestRig(t, 48000)

	for _, n := range []int{0, 1, 4096} {
		in := make([]float32, n)
		out := make([]float32, n)
		for i := range in {
			in[i] = float32(i%17)*0.1 - 0.8
		}
		want := make([]float32, n)
		copy(want, in)

		rig.proc.Run(&process.Context{In: in, Out: out})

		assert.Equal(t, want, out, "n=%d", n)
		assert.Equal(t, want, in, "n=%d: input must be untouched", n)
	}
}

func TestBoolSetDecoded(t *testing.T) {
	for _, want := range []bool{true, false} {
		rig := newTestRig(t, 48000)

		var got []bool
		rig.proc.OnBool(func(v bool) { got = append(got, v) })

		seq := rig.forgeSet(t, PropertyBoolTest, want)
		rig.proc.Run(&process.Context{Events: seq})

		require.Len(t, got, 1)
		assert.Equal(t, want, got[0])
		assert.True(t, rig.sink.contains("received boolean"))

		// Threshold not reached, so the decoder's work must not
		// trigger any request.
		assert.Empty(t, rig.recorder.calls)
		assert.False(t, rig.proc.Requested())
	}
}

func TestAckSetDecoded(t *testing.T) {
	rig := newTestRig(t, 48000)

	var acks []bool
	rig.proc.OnAck(func(v bool) { acks = append(acks, v) })

	seq := rig.forgeSet(t, PropertyAckTest, true)
	rig.proc.Run(&process.Context{Events: seq})

	require.Len(t, acks, 1)
	assert.True(t, acks[0])
	assert.True(t, rig.sink.contains("dialog acknowledged"))
}

func TestUnrecognizedEventsSkipped(t *testing.T) {
	rig := newTestRig(t, 48000)

	var bools, acks int
	rig.proc.OnBool(func(bool) { bools++ })
	rig.proc.OnAck(func(bool) { acks++ })

	otherOType := rig.mapper.URID("urn:example:other-object")

	// A non-object event and an object of an unrecognized type.
	seq := rig.forgeSequence(t, func(f *atom.Forge) {
		f.FrameTime(0)
		f.Bool(true)
		f.FrameTime(16)
		f.BeginObject(0, otherOType)
		f.Key(rig.uris.PatchProperty)
		f.URID(rig.mapper.URID(PropertyBoolTest))
		f.End()
	})
	rig.proc.Run(&process.Context{Events: seq})

	assert.Zero(t, bools)
	assert.Zero(t, acks)
	assert.Empty(t, rig.sink.messages, "skipped events must leave no trace")
}

func TestBlankObjectsRecognized(t *testing.T) {
	rig := newTestRig(t, 48000)

	var got []bool
	rig.proc.OnBool(func(v bool) { got = append(got, v) })

	seq := rig.forgeSequence(t, func(f *atom.Forge) {
		f.FrameTime(0)
		f.BeginBlank(0, rig.uris.PatchSet)
		f.Key(rig.uris.PatchProperty)
		f.URID(rig.mapper.URID(PropertyBoolTest))
		f.Key(rig.uris.PatchValue)
		f.Bool(true)
		f.End()
	})
	rig.proc.Run(&process.Context{Events: seq})

	require.Len(t, got, 1)
	assert.True(t, got[0])
}

func TestMalformedSetMessages(t *testing.T) {
	cases := []struct {
		name    string
		build   func(rig *testRig, f *atom.Forge)
		wantLog string
	}{
		{
			name: "missing property member",
			build: func(rig *testRig, f *atom.Forge) {
				f.Key(rig.uris.PatchValue)
				f.Bool(true)
			},
			wantLog: patch.ErrNoBody.Error(),
		},
		{
			name: "non-identifier property",
			build: func(rig *testRig, f *atom.Forge) {
				f.Key(rig.uris.PatchProperty)
				f.Float(1.0)
				f.Key(rig.uris.PatchValue)
				f.Bool(true)
			},
			wantLog: patch.ErrNonIdentifierProperty.Error(),
		},
		{
			name: "missing value member",
			build: func(rig *testRig, f *atom.Forge) {
				f.Key(rig.uris.PatchProperty)
				f.URID(rig.mapper.URID(PropertyBoolTest))
			},
			wantLog: patch.ErrNoValue.Error(),
		},
		{
			name: "value type mismatch",
			build: func(rig *testRig, f *atom.Forge) {
				f.Key(rig.uris.PatchProperty)
				f.URID(rig.mapper.URID(PropertyBoolTest))
				f.Key(rig.uris.PatchValue)
				f.Float(1.0)
			},
			wantLog: patch.ErrTypeMismatch.Error(),
		},
		{
			name: "unknown property",
			build: func(rig *testRig, f *atom.Forge) {
				f.Key(rig.uris.PatchProperty)
				f.URID(rig.mapper.URID("urn:example:unknown-property"))
				f.Key(rig.uris.PatchValue)
				f.Bool(true)
			},
			wantLog: patch.ErrUnknownProperty.Error(),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rig := newTestRig(t, 48000)

			var observed int
			rig.proc.OnBool(func(bool) { observed++ })
			rig.proc.OnAck(func(bool) { observed++ })

			seq := rig.forgeSequence(t, func(f *atom.Forge) {
				f.FrameTime(0)
				f.BeginObject(0, rig.uris.PatchSet)
				tc.build(rig, f)
				f.End()
			})
			rig.proc.Run(&process.Context{Events: seq})

			assert.True(t, rig.sink.contains(tc.wantLog),
				"expected a diagnostic containing %q, got %v", tc.wantLog, rig.sink.messages)
			assert.Zero(t, observed, "malformed messages must not be acted upon")
			assert.False(t, rig.proc.Requested(), "instance state must be unchanged")
			assert.Empty(t, rig.recorder.calls)
		})
	}
}

func TestMalformedEventsDoNotAbortCycle(t *testing.T) {
	rig := newTestRig(t, 48000)

	var got []bool
	rig.proc.OnBool(func(v bool) { got = append(got, v) })

	// A defective set message followed by a well-formed one: the
	// second must still be decoded.
	seq := rig.forgeSequence(t, func(f *atom.Forge) {
		f.FrameTime(0)
		f.BeginObject(0, rig.uris.PatchSet)
		f.Key(rig.uris.PatchValue)
		f.Bool(false)
		f.End()
		f.FrameTime(8)
		f.BeginObject(0, rig.uris.PatchSet)
		f.Key(rig.uris.PatchProperty)
		f.URID(rig.mapper.URID(PropertyBoolTest))
		f.Key(rig.uris.PatchValue)
		f.Bool(true)
		f.End()
	})
	rig.proc.Run(&process.Context{Events: seq})

	require.Len(t, got, 1)
	assert.True(t, got[0])
	assert.True(t, rig.sink.contains(patch.ErrNoBody.Error()))
}

func TestRequestFiresOnBoundaryCrossingCycle(t *testing.T) {
	const rate = 48000
	rig := newTestRig(t, rate)

	// Three cycles totaling exactly 2 * rate samples: no request yet.
	for i := 0; i < 3; i++ {
		rig.runSamples(32000)
		assert.Empty(t, rig.recorder.calls, "no request may fire at or below the threshold")
	}
	assert.Equal(t, uint64(96000), rig.proc.SampleCount())
	assert.False(t, rig.proc.Requested())

	// The cycle that crosses the boundary fires the request.
	rig.runSamples(1)
	require.Len(t, rig.recorder.calls, 1)
	assert.True(t, rig.proc.Requested())

	call := rig.recorder.calls[0]
	assert.Equal(t, rig.mapper.URID(PropertyBoolTest), call.property)
	assert.Equal(t, rig.uris.AtomBool, call.valueType)

	data, ok := feature.Find(call.features, feature.DialogMessageURI)
	require.True(t, ok, "request must carry the dialog message capability")
	msg, ok := data.(*feature.DialogMessage)
	require.True(t, ok)
	assert.Equal(t, "FOO BAR!", msg.Message)
	assert.False(t, msg.RequiresReturn, "request is fire-and-forget")
	require.NotNil(t, msg.Release)
	msg.Release() // static message, must be a safe no-op

	// Never a second time.
	for i := 0; i < 10; i++ {
		rig.runSamples(4096)
	}
	assert.Len(t, rig.recorder.calls, 1)
}

func TestRequestStaysSentWhenHostRejects(t *testing.T) {
	rig := newTestRig(t, 48000)
	rig.recorder.err = errors.New("host is busy")

	rig.runSamples(96001)
	require.Len(t, rig.recorder.calls, 1)
	assert.True(t, rig.proc.Requested(), "a failed request must not be retried")
	assert.True(t, rig.sink.contains("value request rejected"))

	rig.runSamples(4096)
	assert.Len(t, rig.recorder.calls, 1)
}

func TestDialogRoundTrip(t *testing.T) {
	const rate = 48000
	rig := newTestRig(t, rate)

	var bools, acks []bool
	rig.proc.OnBool(func(v bool) { bools = append(bools, v) })
	rig.proc.OnAck(func(v bool) { acks = append(acks, v) })

	// Cross the threshold; the plugin asks for a value.
	rig.runSamples(96001)
	require.Len(t, rig.recorder.calls, 1)

	// The host answers on a later cycle with the user's value and an
	// acknowledgement, both as ordinary set messages.
	seq := rig.forgeSequence(t, func(f *atom.Forge) {
		f.FrameTime(0)
		f.BeginObject(0, rig.uris.PatchSet)
		f.Key(rig.uris.PatchProperty)
		f.URID(rig.mapper.URID(PropertyAckTest))
		f.Key(rig.uris.PatchValue)
		f.Bool(true)
		f.End()
		f.FrameTime(128)
		f.BeginObject(0, rig.uris.PatchSet)
		f.Key(rig.uris.PatchProperty)
		f.URID(rig.mapper.URID(PropertyBoolTest))
		f.Key(rig.uris.PatchValue)
		f.Bool(true)
		f.End()
	})

	buf := make([]float32, 4096)
	rig.proc.Run(&process.Context{In: buf, Out: buf, Events: seq})

	require.Len(t, bools, 1)
	assert.True(t, bools[0])
	require.Len(t, acks, 1)
	assert.True(t, acks[0])

	// Still exactly one request.
	assert.Len(t, rig.recorder.calls, 1)
}

func TestNilEventSequenceIsNoOp(t *testing.T) {
	rig := newTestRig(t, 48000)

	in := []float32{0.1, 0.2}
	out := make([]float32, 2)
	rig.proc.Run(&process.Context{In: in, Out: out})

	assert.Equal(t, in, out)
	assert.Empty(t, rig.sink.messages)
}
