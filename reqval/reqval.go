// Package reqval implements an audio pass-through plugin that exercises
// the host value-request protocol.
//
// The plugin forwards audio unchanged and decodes property-set messages
// from its control port. Once more than two seconds of audio have been
// processed it asks the host to solicit a boolean value from the user.
// The host performs the dialog on its own thread and delivers the answer
// as another property-set event on a later cycle.
package reqval

import (
	"errors"

	"github.com/lv2kit/lv2go/pkg/framework/feature"
	"github.com/lv2kit/lv2go/pkg/framework/logging"
	"github.com/lv2kit/lv2go/pkg/framework/port"
	"github.com/lv2kit/lv2go/pkg/framework/process"
	"github.com/lv2kit/lv2go/pkg/framework/property"
	"github.com/lv2kit/lv2go/pkg/framework/urid"
	"github.com/lv2kit/lv2go/pkg/plugin"
)

const (
	// URI identifies the plugin.
	URI = "http://lv2kit.org/ns/lv2go/reqval"

	// PropertyBoolTest is the boolean property whose value the plugin
	// asks the host to solicit.
	PropertyBoolTest = URI + "#booltest"

	// PropertyAckTest is a boolean property hosts may set to confirm
	// that the dialog was shown, independently of the user's answer.
	PropertyAckTest = URI + "#acktest"
)

// dialogPrompt is the message shown by the host's dialog. It is a
// static constant, so the release callback attached to it is a no-op.
const dialogPrompt = "FOO BAR!"

// requestAfterSeconds is the elapsed audio time after which the value
// request is issued.
const requestAfterSeconds = 2

// ErrNoRequestValue reports a host without the value-request capability.
// The plugin is useless without it, so instantiation fails.
var ErrNoRequestValue = errors.New("host does not support value requests")

// Info returns the plugin metadata.
func Info() plugin.Info {
	return plugin.Info{
		URI:     URI,
		Name:    "Request Value",
		Version: "1.0.0",
		Vendor:  "lv2go",
	}
}

// uris holds every identifier the plugin resolves at instantiation.
type uris struct {
	urid.Table
	boolTest urid.URID
	ackTest  urid.URID
}

// Processor is one plugin instance. All state is owned by the audio
// thread; the host must deliver data from other threads only through the
// control port, synchronized before the next cycle begins.
type Processor struct {
	uris   uris
	props  *property.Registry
	ports  *port.Configuration
	logger *logging.Logger

	request  feature.RequestValue
	dialog   feature.DialogMessage
	features []feature.Feature

	sampleRate  float64
	sampleCount uint64
	requestSent bool

	onBool func(bool)
	onAck  func(bool)
}

// New constructs a plugin instance. It fails when the host lacks the URI
// mapping service or the value-request capability; there is no way to
// acquire either later.
func New(rate float64, host plugin.Host) (*Processor, error) {
	logger := logging.New(host.Log, "reqval")

	if host.RequestValue == nil {
		logger.Errorf("host does not support %s", feature.RequestValueURI)
		return nil, ErrNoRequestValue
	}

	table, err := urid.Resolve(host.Map)
	if err != nil {
		logger.Errorf("host does not support %s", feature.MapURI)
		return nil, err
	}

	p := &Processor{
		uris: uris{
			Table:    table,
			boolTest: host.Map.URID(PropertyBoolTest),
			ackTest:  host.Map.URID(PropertyAckTest),
		},
		props:      property.NewRegistry(),
		logger:     logger,
		request:    host.RequestValue,
		sampleRate: rate,
	}

	p.props.Add(
		&property.Property{URID: p.uris.boolTest, URI: PropertyBoolTest, ValueType: table.AtomBool},
		&property.Property{URID: p.uris.ackTest, URI: PropertyAckTest, ValueType: table.AtomBool},
	)

	p.ports = port.NewBuilder().
		WithEventInput("Control").
		WithAudioInput("In").
		WithAudioOutput("Out").
		MustBuild()

	p.dialog = feature.DialogMessage{
		RequiresReturn: true,
		Release:        func() {}, // statically allocated message
	}
	p.features = []feature.Feature{
		{URI: feature.DialogMessageURI, Data: &p.dialog},
	}

	return p, nil
}

// Factory adapts New to the host-facing factory signature.
func Factory(rate float64, host plugin.Host) (plugin.Processor, error) {
	return New(rate, host)
}

// Ports returns the fixed port layout: control in, audio in, audio out.
func (p *Processor) Ports() *port.Configuration {
	return p.ports
}

// Properties returns the plugin's patchable properties.
func (p *Processor) Properties() *property.Registry {
	return p.props
}

// OnBool registers an observer for decoded values of the boolean test
// property. Must be set before processing starts.
func (p *Processor) OnBool(fn func(bool)) {
	p.onBool = fn
}

// OnAck registers an observer for dialog acknowledgements.
func (p *Processor) OnAck(fn func(bool)) {
	p.onAck = fn
}

// Requested reports whether the value request has been issued.
func (p *Processor) Requested() bool {
	return p.requestSent
}

// SampleCount returns the number of audio frames processed so far.
func (p *Processor) SampleCount() uint64 {
	return p.sampleCount
}

// Run executes one processing cycle.
func (p *Processor) Run(ctx *process.Context) {
	ctx.PassThrough()

	if ctx.Events != nil {
		p.dispatch(ctx.Events)
	}

	p.sampleCount += uint64(ctx.NumSamples())

	if !p.requestSent && float64(p.sampleCount) > requestAfterSeconds*p.sampleRate {
		// The transition happens before the host call; a failed
		// request is never re-armed.
		p.requestSent = true

		p.dialog.Message = dialogPrompt
		p.dialog.RequiresReturn = false
		if err := p.request.Request(p.uris.boolTest, p.uris.AtomBool, p.features); err != nil {
			p.logger.Errorf("value request rejected: %v", err)
		}
	}
}
