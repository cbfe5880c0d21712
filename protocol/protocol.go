// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Default protocol parameters. Servers and clients must agree on the
// magic value and the channel counts; the rest are server-side limits.
const (
	// DefaultHost and DefaultPort are the loopback address the bridge
	// listens on unless configured otherwise.
	DefaultHost = "127.0.0.1"
	DefaultPort = 12512

	// DefaultMagic is the handshake token. It keeps clients speaking
	// other protocols (HTTP, WebSocket, older bridge versions) from
	// reaching the command loop.
	DefaultMagic uint32 = 0xff00fefd

	// DefaultPortCount is the number of bridge ports.
	DefaultPortCount = 16

	// DefaultInputChannels and DefaultOutputChannels are the number of
	// interleaved channels in AudioProcess input and output blocks.
	DefaultInputChannels  = 8
	DefaultOutputChannels = 8

	// DefaultMaxFrames bounds the frame count of a single AudioProcess
	// command.
	DefaultMaxFrames = 1 << 16
)

// ByteOrder is the encoding of every multi-byte field on the wire:
// the handshake token, sample rates, frame counts, and float32 samples.
var ByteOrder = binary.LittleEndian

// MagicLength is the size of the handshake token.
const MagicLength = 4

// SampleSize is the wire size of one float32 sample.
const SampleSize = 4

// MIDIMessageLength is the fixed size of a MidiMessage payload.
const MIDIMessageLength = 3

// MaxBlockBytes bounds the size of one audio block in either direction.
// A server configuration whose MaxFrames allows a larger block is
// rejected, since a single frame count from a client would otherwise
// size the allocation.
const MaxBlockBytes = 1 << 28

// BlockFits reports whether frames of channels samples each fit in
// MaxBlockBytes. Both arguments must be positive.
func BlockFits(frames, channels int) bool {
	if channels > MaxBlockBytes/SampleSize {
		return false
	}
	return frames <= MaxBlockBytes/(channels*SampleSize)
}

// Command is a one-byte opcode at the start of every client command.
type Command byte

const (
	// CommandNone is never valid; receiving it closes the connection.
	CommandNone Command = 0

	// CommandQuit ends the session. No payload, no reply.
	CommandQuit Command = 1

	// CommandSetPort binds the connection to a port. Payload: one byte
	// port index. No reply, including when the bind fails.
	CommandSetPort Command = 2

	// CommandMIDIMessage forwards a MIDI message to the bound port.
	// Payload: three bytes. No reply.
	CommandMIDIMessage Command = 3

	// CommandSetSampleRate declares the client's sample rate. Payload:
	// uint32. No reply.
	CommandSetSampleRate Command = 4

	// CommandAudioProcess exchanges one audio block. Payload: uint32
	// frame count followed by frames*inputs float32 samples. Reply:
	// frames*outputs float32 samples.
	CommandAudioProcess Command = 5
)

func (c Command) String() string {
	switch c {
	case CommandNone:
		return "none"
	case CommandQuit:
		return "quit"
	case CommandSetPort:
		return "set-port"
	case CommandMIDIMessage:
		return "midi-message"
	case CommandSetSampleRate:
		return "set-sample-rate"
	case CommandAudioProcess:
		return "audio-process"
	default:
		return fmt.Sprintf("command(%d)", byte(c))
	}
}

// ReadUint32 reads one wire-order uint32 from r.
func ReadUint32(r io.Reader) (uint32, error) {
	var buffer [4]byte
	if _, err := io.ReadFull(r, buffer[:]); err != nil {
		return 0, err
	}
	return ByteOrder.Uint32(buffer[:]), nil
}

// AppendUint32 appends the wire encoding of value to buffer.
func AppendUint32(buffer []byte, value uint32) []byte {
	return ByteOrder.AppendUint32(buffer, value)
}

// DecodeSamples converts wire bytes into samples. len(data) must be
// SampleSize*len(samples).
func DecodeSamples(samples []float32, data []byte) {
	for i := range samples {
		samples[i] = math.Float32frombits(ByteOrder.Uint32(data[i*SampleSize:]))
	}
}

// EncodeSamples converts samples into wire bytes. len(data) must be
// SampleSize*len(samples).
func EncodeSamples(data []byte, samples []float32) {
	for i, sample := range samples {
		ByteOrder.PutUint32(data[i*SampleSize:], math.Float32bits(sample))
	}
}
