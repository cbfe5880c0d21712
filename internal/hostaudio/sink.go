// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hostaudio

import (
	"log/slog"
	"sync/atomic"

	"github.com/bureau-foundation/audiobridge/bridge"
)

// ChannelSink returns each client's input to it, scaled by Gain. Output
// channel c carries input channel c; output channels beyond the input
// count are silent.
type ChannelSink struct {
	port           int
	inputChannels  int
	outputChannels int
	gain           float32
	logger         *slog.Logger

	sampleRate atomic.Int64
	blockSize  atomic.Int64
}

var _ bridge.AudioSink = (*ChannelSink)(nil)

// NewChannelSink creates a sink for port.
func NewChannelSink(port int, options Options) *ChannelSink {
	options = options.withDefaults()
	return &ChannelSink{
		port:           port,
		inputChannels:  options.InputChannels,
		outputChannels: options.OutputChannels,
		gain:           options.Gain,
		logger:         options.Logger.With("port", port),
	}
}

func (s *ChannelSink) SetSampleRate(sampleRate int) {
	if previous := s.sampleRate.Swap(int64(sampleRate)); previous != int64(sampleRate) {
		s.logger.Debug("sample rate changed", "sample_rate", sampleRate)
	}
}

func (s *ChannelSink) SetBlockSize(frames int) {
	s.blockSize.Store(int64(frames))
}

func (s *ChannelSink) ProcessStream(input, output []float32, frames int) {
	remix(output, s.outputChannels, input, s.inputChannels, frames, s.gain)
}

// SampleRate returns the last rate pushed by the bridge.
func (s *ChannelSink) SampleRate() int {
	return int(s.sampleRate.Load())
}

// BlockSize returns the frame count of the last block.
func (s *ChannelSink) BlockSize() int {
	return int(s.blockSize.Load())
}

// remix copies frames of interleaved src into interleaved dst,
// channel for channel, scaled by gain. dst channels with no source
// channel are zeroed; extra src channels are dropped.
func remix(dst []float32, dstChannels int, src []float32, srcChannels int, frames int, gain float32) {
	for frame := range frames {
		dstFrame := dst[frame*dstChannels : (frame+1)*dstChannels]
		srcFrame := src[frame*srcChannels : (frame+1)*srcChannels]
		for channel := range dstFrame {
			if channel < srcChannels {
				dstFrame[channel] = gain * srcFrame[channel]
			} else {
				dstFrame[channel] = 0
			}
		}
	}
}
