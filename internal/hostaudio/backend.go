// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hostaudio

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/bureau-foundation/audiobridge/bridge"
	"github.com/bureau-foundation/audiobridge/protocol"
)

// ErrNotBuilt is returned when a native backend is requested from a
// binary built without the audio_native tag.
var ErrNotBuilt = errors.New("hostaudio: native audio backends require the audio_native build tag")

// Options configures a backend.
type Options struct {
	// InputChannels and OutputChannels must match the bridge's.
	InputChannels  int
	OutputChannels int

	// Gain scales the gain backend. Zero means 1.
	Gain float32

	// SampleRate is the device rate used by the oto backend, which
	// cannot change rate after opening. Zero means 48000.
	SampleRate int

	// BufferFrames sizes the native rings, per direction. Zero means
	// 8192 frames.
	BufferFrames int

	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.InputChannels == 0 {
		o.InputChannels = protocol.DefaultInputChannels
	}
	if o.OutputChannels == 0 {
		o.OutputChannels = protocol.DefaultOutputChannels
	}
	if o.Gain == 0 {
		o.Gain = 1
	}
	if o.SampleRate == 0 {
		o.SampleRate = 48000
	}
	if o.BufferFrames == 0 {
		o.BufferFrames = 8192
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Backend creates one sink per port and owns whatever they share.
type Backend interface {
	// NewSink creates the sink for port.
	NewSink(port int) (bridge.AudioSink, error)

	// Close releases the backend's devices. Sinks must be unsubscribed
	// first.
	Close() error
}

// Backend names.
const (
	Loopback = "loopback"
	Gain     = "gain"
	Malgo    = "malgo"
	Oto      = "oto"
)

// Open returns the backend called name.
func Open(name string, options Options) (Backend, error) {
	options = options.withDefaults()
	switch name {
	case Loopback:
		options.Gain = 1
		return channelBackend{options: options}, nil
	case Gain:
		return channelBackend{options: options}, nil
	case Malgo:
		return openMalgo(options)
	case Oto:
		return openOto(options)
	default:
		return nil, fmt.Errorf("hostaudio: unknown backend %q", name)
	}
}

type channelBackend struct {
	options Options
}

func (b channelBackend) NewSink(port int) (bridge.AudioSink, error) {
	return NewChannelSink(port, b.options), nil
}

func (channelBackend) Close() error { return nil }
