// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"
)

// ClientOptions configures a Client. Zero values select the protocol
// defaults.
type ClientOptions struct {
	// Magic is the handshake token. Zero means DefaultMagic.
	Magic uint32

	// InputChannels and OutputChannels must match the server's channel
	// configuration. Zero means the defaults.
	InputChannels  int
	OutputChannels int

	// DialTimeout bounds the TCP connect phase in Dial. Zero means no
	// timeout beyond the context deadline.
	DialTimeout time.Duration
}

func (o ClientOptions) withDefaults() ClientOptions {
	if o.Magic == 0 {
		o.Magic = DefaultMagic
	}
	if o.InputChannels == 0 {
		o.InputChannels = DefaultInputChannels
	}
	if o.OutputChannels == 0 {
		o.OutputChannels = DefaultOutputChannels
	}
	return o
}

// Client speaks the bridge protocol over one connection. A Client is
// not safe for concurrent use; the protocol is strictly sequential.
type Client struct {
	connection net.Conn
	options    ClientOptions

	// scratch holds the encoded bytes of the last audio block.
	scratch []byte
}

// Dial connects to a bridge server at address and performs the
// handshake.
func Dial(ctx context.Context, address string, options ClientOptions) (*Client, error) {
	options = options.withDefaults()
	dialer := net.Dialer{Timeout: options.DialTimeout}
	connection, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("connecting to bridge at %s: %w", address, err)
	}
	client, err := NewClient(connection, options)
	if err != nil {
		connection.Close()
		return nil, err
	}
	return client, nil
}

// NewClient sends the handshake on an established connection and
// returns a Client that owns it.
func NewClient(connection net.Conn, options ClientOptions) (*Client, error) {
	client := &Client{
		connection: connection,
		options:    options.withDefaults(),
	}
	if err := client.write(AppendUint32(nil, client.options.Magic)); err != nil {
		return nil, fmt.Errorf("sending handshake: %w", err)
	}
	return client, nil
}

// Conn returns the underlying connection.
func (c *Client) Conn() net.Conn {
	return c.connection
}

// SetPort asks the server to bind this connection to port. The server
// does not acknowledge; a failed bind is only observable through
// silence on the port.
func (c *Client) SetPort(port uint8) error {
	if err := c.write([]byte{byte(CommandSetPort), port}); err != nil {
		return fmt.Errorf("sending %s: %w", CommandSetPort, err)
	}
	return nil
}

// SendMIDI forwards a three-byte MIDI message to the bound port.
func (c *Client) SendMIDI(message [MIDIMessageLength]byte) error {
	frame := []byte{byte(CommandMIDIMessage), message[0], message[1], message[2]}
	if err := c.write(frame); err != nil {
		return fmt.Errorf("sending %s: %w", CommandMIDIMessage, err)
	}
	return nil
}

// SetSampleRate declares the client's sample rate.
func (c *Client) SetSampleRate(sampleRate uint32) error {
	frame := AppendUint32([]byte{byte(CommandSetSampleRate)}, sampleRate)
	if err := c.write(frame); err != nil {
		return fmt.Errorf("sending %s: %w", CommandSetSampleRate, err)
	}
	return nil
}

// Process sends one block of interleaved input samples and returns the
// server's interleaved output block. len(input) must be a multiple of
// the configured input channel count.
func (c *Client) Process(input []float32) ([]float32, error) {
	if len(input) == 0 || len(input)%c.options.InputChannels != 0 {
		return nil, fmt.Errorf("input length %d is not a positive multiple of %d channels",
			len(input), c.options.InputChannels)
	}
	frames := len(input) / c.options.InputChannels

	size := 1 + 4 + len(input)*SampleSize
	if cap(c.scratch) < size {
		c.scratch = make([]byte, size)
	}
	frame := c.scratch[:size]
	frame[0] = byte(CommandAudioProcess)
	ByteOrder.PutUint32(frame[1:5], uint32(frames))
	EncodeSamples(frame[5:], input)
	if err := c.write(frame); err != nil {
		return nil, fmt.Errorf("sending %s block: %w", CommandAudioProcess, err)
	}

	output := make([]float32, frames*c.options.OutputChannels)
	data := make([]byte, len(output)*SampleSize)
	if _, err := io.ReadFull(c.connection, data); err != nil {
		return nil, fmt.Errorf("reading %s reply: %w", CommandAudioProcess, err)
	}
	DecodeSamples(output, data)
	return output, nil
}

// SendRaw writes arbitrary bytes to the connection. Tests use it to
// send malformed commands.
func (c *Client) SendRaw(data []byte) error {
	return c.write(data)
}

// Quit sends the quit command. The server closes the connection after
// reading it.
func (c *Client) Quit() error {
	if err := c.write([]byte{byte(CommandQuit)}); err != nil {
		return fmt.Errorf("sending %s: %w", CommandQuit, err)
	}
	return nil
}

// Close closes the connection without sending quit.
func (c *Client) Close() error {
	return c.connection.Close()
}

func (c *Client) write(data []byte) error {
	_, err := c.connection.Write(data)
	return err
}
