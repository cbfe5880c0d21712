// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bridge

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync/atomic"

	"gitlab.com/gomidi/midi/v2"

	"github.com/bureau-foundation/audiobridge/lib/netutil"
	"github.com/bureau-foundation/audiobridge/protocol"
)

// Connection is the server side of one client session. It reads the
// handshake, then runs the command loop until the client quits, sends
// something invalid, or the socket fails. A connection owns at most
// one port at a time and releases it on the way out.
//
// Run, and everything it calls, executes on a single goroutine; only
// SampleRate and RemoteAddr are read from other goroutines.
type Connection struct {
	id         int64
	connection net.Conn
	reader     *bufio.Reader
	ports      *PortTable
	midi       *MIDIDriver
	options    Options
	logger     *slog.Logger

	ready      bool
	port       int
	sampleRate atomic.Uint32

	input  []float32
	output []float32
	buffer []byte

	done chan struct{}
}

func newConnection(id int64, connection net.Conn, ports *PortTable, midiDriver *MIDIDriver, options Options) *Connection {
	return &Connection{
		id:         id,
		connection: connection,
		reader:     bufio.NewReader(connection),
		ports:      ports,
		midi:       midiDriver,
		options:    options,
		logger: options.Logger.With(
			"connection_id", id,
			"remote_addr", connection.RemoteAddr(),
		),
		port: -1,
		done: make(chan struct{}),
	}
}

// ID returns the server-assigned connection number.
func (c *Connection) ID() int64 {
	return c.id
}

// SampleRate returns the last rate the client declared, 0 if none.
func (c *Connection) SampleRate() int {
	return int(c.sampleRate.Load())
}

// RemoteAddr returns the client's address.
func (c *Connection) RemoteAddr() net.Addr {
	return c.connection.RemoteAddr()
}

// Done is closed when Run has returned and the port is released.
func (c *Connection) Done() <-chan struct{} {
	return c.done
}

// Close closes the socket, which makes a blocked Run fail its next
// read and unwind.
func (c *Connection) Close() error {
	return c.connection.Close()
}

// Run serves the session to completion.
func (c *Connection) Run() {
	defer close(c.done)
	defer c.shutdown()

	c.logger.Info("bridge client connected")

	magic, err := protocol.ReadUint32(c.reader)
	if err != nil {
		c.logFailure("reading handshake", err)
		return
	}
	if magic != c.options.Magic {
		c.logger.Info("bridge client protocol mismatch",
			"magic", fmt.Sprintf("%#08x", magic),
			"expected", fmt.Sprintf("%#08x", c.options.Magic),
		)
		return
	}

	c.ready = true
	for c.ready {
		c.step()
	}
}

func (c *Connection) shutdown() {
	c.setPort(-1)
	c.connection.Close()
	c.logger.Info("bridge client closed")
}

// step reads and executes one command.
func (c *Connection) step() {
	opcode, err := c.reader.ReadByte()
	if err != nil {
		c.fail("reading command", err)
		return
	}

	switch command := protocol.Command(opcode); command {
	case protocol.CommandQuit:
		c.ready = false

	case protocol.CommandSetPort:
		port, err := c.reader.ReadByte()
		if err != nil {
			c.fail("reading port", err)
			return
		}
		c.setPort(int(port))

	case protocol.CommandMIDIMessage:
		var message [protocol.MIDIMessageLength]byte
		if _, err := io.ReadFull(c.reader, message[:]); err != nil {
			c.fail("reading MIDI message", err)
			return
		}
		c.processMIDI(midi.Message(message[:]))

	case protocol.CommandSetSampleRate:
		sampleRate, err := protocol.ReadUint32(c.reader)
		if err != nil {
			c.fail("reading sample rate", err)
			return
		}
		c.setSampleRate(sampleRate)

	case protocol.CommandAudioProcess:
		c.processAudio()

	default:
		c.logger.Warn("bridge client sent unknown command", "command", command.String())
		c.ready = false
	}
}

// setPort releases the current port, if any, then tries to claim port.
// A negative port only releases. A failed claim leaves the connection
// unbound and is not reported to the client.
func (c *Connection) setPort(port int) {
	c.port = c.ports.SetPort(c, port)
	switch {
	case port < 0:
	case c.port == port:
		c.logger.Debug("bridge client bound port", "port", port)
	default:
		c.logger.Debug("bridge client could not bind port", "port", port)
	}
}

func (c *Connection) setSampleRate(sampleRate uint32) {
	c.sampleRate.Store(sampleRate)
	if c.port >= 0 {
		c.ports.Refresh(c.port, c)
	}
}

// processMIDI forwards message to the subscribers of the bound port.
// Unbound connections drop MIDI.
func (c *Connection) processMIDI(message midi.Message) {
	if c.port < 0 {
		return
	}
	c.midi.Deliver(c.port, message)
}

// processAudio exchanges one audio block. The reply is always sent,
// even when the connection is unbound or no sink is registered; the
// output is then silence.
func (c *Connection) processAudio() {
	frames, err := protocol.ReadUint32(c.reader)
	if err != nil {
		c.fail("reading frame count", err)
		return
	}
	if frames == 0 || uint64(frames) > uint64(c.options.MaxFrames) {
		c.logger.Warn("bridge client sent out-of-range frame count",
			"frames", frames,
			"max_frames", c.options.MaxFrames,
		)
		c.ready = false
		return
	}

	inputSamples := int(frames) * c.options.InputChannels
	outputSamples := int(frames) * c.options.OutputChannels

	data := c.grow(inputSamples * protocol.SampleSize)
	if _, err := io.ReadFull(c.reader, data); err != nil {
		c.fail("reading audio block", err)
		return
	}
	c.input = resize(c.input, inputSamples)
	protocol.DecodeSamples(c.input, data)

	c.output = resize(c.output, outputSamples)
	clear(c.output)
	if c.port >= 0 {
		c.ports.Process(c.port, c, c.input, c.output, int(frames))
	}

	data = c.grow(outputSamples * protocol.SampleSize)
	protocol.EncodeSamples(data, c.output)
	if _, err := c.connection.Write(data); err != nil {
		c.fail("writing audio block", err)
	}
}

// grow returns a byte slice of length size backed by the connection's
// scratch buffer.
func (c *Connection) grow(size int) []byte {
	if cap(c.buffer) < size {
		c.buffer = make([]byte, size)
	}
	return c.buffer[:size]
}

func resize(samples []float32, size int) []float32 {
	if cap(samples) < size {
		return make([]float32, size)
	}
	return samples[:size]
}

// fail ends the command loop after a socket error.
func (c *Connection) fail(stage string, err error) {
	c.ready = false
	c.logFailure(stage, err)
}

func (c *Connection) logFailure(stage string, err error) {
	if netutil.IsExpectedCloseError(err) {
		c.logger.Debug("bridge client disconnected", "stage", stage, "error", err)
		return
	}
	c.logger.Warn("bridge client socket error", "stage", stage, "error", err)
}
