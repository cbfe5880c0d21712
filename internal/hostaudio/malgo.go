// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build audio_native

package hostaudio

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/gen2brain/malgo"

	"github.com/bureau-foundation/audiobridge/bridge"
	"github.com/bureau-foundation/audiobridge/protocol"
)

const nativeBuilt = true

// malgoBackend shares one miniaudio context among the per-port duplex
// devices.
type malgoBackend struct {
	options Options
	context *malgo.AllocatedContext
}

func openMalgo(options Options) (Backend, error) {
	logger := options.Logger.With("backend", Malgo)
	context, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {
		logger.Debug("miniaudio", "message", message)
	})
	if err != nil {
		return nil, fmt.Errorf("hostaudio: initializing miniaudio: %w", err)
	}
	return &malgoBackend{options: options, context: context}, nil
}

func (b *malgoBackend) NewSink(port int) (bridge.AudioSink, error) {
	return &DeviceSink{
		backend:  b,
		logger:   b.options.Logger.With("port", port, "backend", Malgo),
		playback: NewRing(b.options.BufferFrames * b.options.InputChannels),
		capture:  NewRing(b.options.BufferFrames * b.options.OutputChannels),
	}, nil
}

func (b *malgoBackend) Close() error {
	if err := b.context.Uninit(); err != nil {
		return fmt.Errorf("hostaudio: releasing miniaudio: %w", err)
	}
	b.context.Free()
	return nil
}

// DeviceSink plays its client's input on a duplex device and returns
// the device's capture to the client. The device opens on the first
// sample rate the bridge pushes and reopens when it changes.
type DeviceSink struct {
	backend  *malgoBackend
	logger   *slog.Logger
	playback *Ring
	capture  *Ring

	mutex      sync.Mutex
	device     *malgo.Device
	sampleRate int

	// Device-callback scratch, touched only by the callback.
	scratch []float32
}

var _ bridge.AudioSink = (*DeviceSink)(nil)

func (s *DeviceSink) SetSampleRate(sampleRate int) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if sampleRate == s.sampleRate && s.device != nil {
		return
	}
	s.closeLocked()
	if sampleRate <= 0 {
		s.sampleRate = 0
		s.logger.Debug("audio device closed until a sample rate is declared")
		return
	}
	if err := s.openLocked(sampleRate); err != nil {
		s.logger.Warn("opening audio device failed", "sample_rate", sampleRate, "error", err)
		return
	}
	s.sampleRate = sampleRate
	s.logger.Info("audio device opened", "sample_rate", sampleRate)
}

func (s *DeviceSink) SetBlockSize(int) {}

func (s *DeviceSink) ProcessStream(input, output []float32, frames int) {
	options := s.backend.options
	s.playback.Write(input[:frames*options.InputChannels])
	s.capture.Read(output[:frames*options.OutputChannels])
}

// Close stops the device.
func (s *DeviceSink) Close() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.closeLocked()
}

func (s *DeviceSink) openLocked(sampleRate int) error {
	options := s.backend.options
	config := malgo.DefaultDeviceConfig(malgo.Duplex)
	config.Capture.Format = malgo.FormatF32
	config.Capture.Channels = uint32(options.OutputChannels)
	config.Playback.Format = malgo.FormatF32
	config.Playback.Channels = uint32(options.InputChannels)
	config.SampleRate = uint32(sampleRate)

	device, err := malgo.InitDevice(s.backend.context.Context, config, malgo.DeviceCallbacks{
		Data: s.onData,
	})
	if err != nil {
		return err
	}
	if err := device.Start(); err != nil {
		device.Uninit()
		return err
	}
	s.device = device
	return nil
}

func (s *DeviceSink) closeLocked() {
	if s.device == nil {
		return
	}
	s.device.Uninit()
	s.device = nil
	s.playback.Reset()
	s.capture.Reset()
}

// onData runs on the device thread. out receives playback samples, in
// carries captured samples, both interleaved little-endian float32.
func (s *DeviceSink) onData(out, in []byte, frames uint32) {
	if frames == 0 {
		return
	}
	if count := len(in) / protocol.SampleSize; count > 0 {
		captured := s.buffer(count)
		protocol.DecodeSamples(captured, in[:count*protocol.SampleSize])
		s.capture.Write(captured)
	}
	if count := len(out) / protocol.SampleSize; count > 0 {
		played := s.buffer(count)
		s.playback.Read(played)
		protocol.EncodeSamples(out, played)
	}
}

func (s *DeviceSink) buffer(size int) []float32 {
	if cap(s.scratch) < size {
		s.scratch = make([]float32, size)
	}
	return s.scratch[:size]
}
