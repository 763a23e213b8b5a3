// Command lv2host runs the request-value plugin against a simulated host.
//
// The host owns the audio clock: it feeds the plugin silent cycles, injects
// scripted property-set events, and when the plugin requests a value it
// runs the "dialog" on a separate goroutine, delivering the user's answer
// back through the control stream a few cycles later, the same out-of-band
// path a real host would use.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/lv2kit/lv2go/pkg/framework/atom"
	"github.com/lv2kit/lv2go/pkg/framework/feature"
	"github.com/lv2kit/lv2go/pkg/framework/logging"
	"github.com/lv2kit/lv2go/pkg/framework/process"
	"github.com/lv2kit/lv2go/pkg/framework/urid"
	"github.com/lv2kit/lv2go/pkg/plugin"
	"github.com/lv2kit/lv2go/reqval"
)

func main() {
	configPath := flag.String("config", "", "YAML run description (defaults built in)")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg := defaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = loadConfig(*configPath)
		if err != nil {
			log.Error("invalid configuration", "error", err)
			os.Exit(1)
		}
	}

	if err := run(cfg, log); err != nil {
		log.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg Config, log *slog.Logger) error {
	mapper := urid.NewRegistry()
	uris, err := urid.Resolve(mapper)
	if err != nil {
		return err
	}

	requests := make(chan dialogRequest, 1)

	proc, err := reqval.New(cfg.SampleRate, plugin.Host{
		Map:          mapper,
		Log:          &slogSink{log: log.With("source", "plugin")},
		RequestValue: &requester{log: log, ch: requests},
	})
	if err != nil {
		return fmt.Errorf("instantiating plugin: %w", err)
	}

	var received, acked int
	proc.OnBool(func(v bool) {
		received++
		log.Info("plugin observed boolean value", "value", v)
	})
	proc.OnAck(func(v bool) {
		acked++
		log.Info("plugin observed dialog acknowledgement", "value", v)
	})

	pending := &pendingEvents{}
	blockDur := time.Duration(float64(cfg.BlockSize) / cfg.SampleRate * float64(time.Second))

	var g errgroup.Group

	// The dialog "UI thread": answers each request after the configured
	// delay, never touching plugin state directly.
	g.Go(func() error {
		for req := range requests {
			time.Sleep(time.Duration(cfg.DialogDelayCycles) * blockDur)
			log.Info("dialog answered",
				"request", req.id, "answer", cfg.DialogAnswer)

			pending.push(reqval.PropertyBoolTest, cfg.DialogAnswer)
			pending.push(reqval.PropertyAckTest, true)
			if req.release != nil {
				req.release()
			}
		}
		return nil
	})

	// The audio thread: fixed-size cycles on the host clock.
	g.Go(func() error {
		defer close(requests)

		in := make([]float32, cfg.BlockSize)
		out := make([]float32, cfg.BlockSize)
		forge := atom.NewForge(uris)

		for cycle := 0; cycle < cfg.Cycles; cycle++ {
			sets := pending.drain()
			for _, s := range cfg.Script {
				if s.Cycle == cycle {
					sets = append(sets, pendingSet{property: s.Property, value: s.Value})
				}
			}

			seq, err := forgeCycle(forge, uris, mapper, sets)
			if err != nil {
				return fmt.Errorf("cycle %d: forging control events: %w", cycle, err)
			}

			proc.Run(&process.Context{In: in, Out: out, Events: seq})

			for i := range out {
				if out[i] != in[i] {
					return fmt.Errorf("cycle %d: audio not passed through at sample %d", cycle, i)
				}
			}
			time.Sleep(blockDur)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info("run complete",
		"cycles", cfg.Cycles,
		"requested", proc.Requested(),
		"values_received", received,
		"acknowledgements", acked)
	return nil
}

// forgeCycle builds the cycle's control sequence, nil when there is
// nothing to deliver.
func forgeCycle(f *atom.Forge, uris urid.Table, mapper urid.Mapper, sets []pendingSet) (*atom.Sequence, error) {
	if len(sets) == 0 {
		return nil, nil
	}

	f.Reset()
	f.BeginSequence(0)
	for _, s := range sets {
		f.FrameTime(0)
		f.BeginObject(0, uris.PatchSet)
		f.Key(uris.PatchProperty)
		f.URID(mapper.URID(s.property))
		f.Key(uris.PatchValue)
		f.Bool(s.value)
		f.End()
	}
	f.End()

	return atom.ParseSequence(f.Bytes(), uris.AtomSequence)
}

// slogSink adapts the host's structured logger to the plugin log
// capability.
type slogSink struct {
	log *slog.Logger
}

func (s *slogSink) Log(level logging.Level, msg string) {
	var lvl slog.Level
	switch level {
	case logging.LevelDebug:
		lvl = slog.LevelDebug
	case logging.LevelInfo:
		lvl = slog.LevelInfo
	case logging.LevelWarn:
		lvl = slog.LevelWarn
	default:
		lvl = slog.LevelError
	}
	s.log.Log(context.Background(), lvl, msg)
}

// dialogRequest is one outstanding value request, tagged for log
// correlation.
type dialogRequest struct {
	id       string
	property urid.URID
	message  string
	release  func()
}

// requester implements the value-request capability. It must return
// immediately: the request is handed to the dialog goroutine, or refused
// if one is already outstanding.
type requester struct {
	log *slog.Logger
	ch  chan dialogRequest
}

func (r *requester) Request(property, valueType urid.URID, features []feature.Feature) error {
	req := dialogRequest{
		id:       uuid.NewString(),
		property: property,
	}
	if data, ok := feature.Find(features, feature.DialogMessageURI); ok {
		if dm, ok := data.(*feature.DialogMessage); ok {
			req.message = dm.Message
			req.release = dm.Release
		}
	}

	select {
	case r.ch <- req:
	default:
		return fmt.Errorf("a value request is already outstanding")
	}

	r.log.Info("value requested",
		"request", req.id,
		"property", property,
		"type", valueType,
		"message", req.message)
	return nil
}
