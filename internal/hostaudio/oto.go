// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build audio_native

package hostaudio

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/bureau-foundation/audiobridge/bridge"
	"github.com/bureau-foundation/audiobridge/protocol"
)

// oto allows one context per process, so every PlaybackSink plays
// through the same one.
var (
	otoOnce    sync.Once
	otoContext *oto.Context
	otoErr     error
)

type otoBackend struct {
	options Options
}

func openOto(options Options) (Backend, error) {
	otoOnce.Do(func() {
		var ready chan struct{}
		otoContext, ready, otoErr = oto.NewContext(&oto.NewContextOptions{
			SampleRate:   options.SampleRate,
			ChannelCount: options.InputChannels,
			Format:       oto.FormatFloat32LE,
			BufferSize:   20 * time.Millisecond,
		})
		if otoErr == nil {
			<-ready
		}
	})
	if otoErr != nil {
		return nil, fmt.Errorf("hostaudio: opening oto output: %w", otoErr)
	}
	return &otoBackend{options: options}, nil
}

func (b *otoBackend) NewSink(port int) (bridge.AudioSink, error) {
	sink := &PlaybackSink{
		options: b.options,
		logger:  b.options.Logger.With("port", port, "backend", Oto),
		ring:    NewRing(b.options.BufferFrames * b.options.InputChannels),
	}
	sink.player = otoContext.NewPlayer(sink)
	sink.player.Play()
	return sink, nil
}

func (b *otoBackend) Close() error {
	return otoContext.Suspend()
}

// PlaybackSink plays its client's input on the default output device
// and returns silence. The device runs at a fixed rate; a client
// declaring another rate is played unresampled.
type PlaybackSink struct {
	options Options
	logger  *slog.Logger
	ring    *Ring
	player  *oto.Player

	// Read scratch, touched only by the player goroutine.
	scratch []float32
}

var _ bridge.AudioSink = (*PlaybackSink)(nil)

func (s *PlaybackSink) SetSampleRate(sampleRate int) {
	if sampleRate > 0 && sampleRate != s.options.SampleRate {
		s.logger.Warn("client sample rate differs from output device",
			"sample_rate", sampleRate,
			"device_sample_rate", s.options.SampleRate,
		)
	}
}

func (s *PlaybackSink) SetBlockSize(int) {}

func (s *PlaybackSink) ProcessStream(input, output []float32, frames int) {
	s.ring.Write(input[:frames*s.options.InputChannels])
}

// Read implements io.Reader for the oto player.
func (s *PlaybackSink) Read(p []byte) (int, error) {
	count := len(p) / protocol.SampleSize
	if cap(s.scratch) < count {
		s.scratch = make([]float32, count)
	}
	samples := s.scratch[:count]
	s.ring.Read(samples)
	protocol.EncodeSamples(p, samples)
	return count * protocol.SampleSize, nil
}

// Close stops playback.
func (s *PlaybackSink) Close() error {
	return s.player.Close()
}
