// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bridge

import (
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/bureau-foundation/audiobridge/lib/clock"
	"github.com/bureau-foundation/audiobridge/protocol"
)

// MaxPorts is the largest port count the wire format can address: the
// SetPort payload is a single byte.
const MaxPorts = 256

// Default intervals for the serve loop.
const (
	DefaultPollInterval  = 100 * time.Millisecond
	DefaultRetryInterval = 100 * time.Millisecond
)

// Options configures a Server or Host. Zero values select the
// protocol defaults; call Validate (Start does) to reject inconsistent
// values.
type Options struct {
	// ListenAddr is the TCP address to listen on. Empty means
	// 127.0.0.1:12512. Use port 0 in tests and read the bound address
	// from Server.Addr.
	ListenAddr string

	// Ports is the number of bridge ports (and MIDI devices).
	Ports int

	// InputChannels and OutputChannels are the interleaved channel
	// counts of AudioProcess blocks.
	InputChannels  int
	OutputChannels int

	// Magic is the handshake token clients must send first.
	Magic uint32

	// MaxFrames bounds the frame count of a single audio block.
	// Blocks of zero frames or more than MaxFrames close the
	// connection.
	MaxFrames int

	// PollInterval is the backoff after a failed Accept.
	PollInterval time.Duration

	// RetryInterval is the wait between attempts to bind the listener.
	RetryInterval time.Duration

	// NoDelay sets TCP_NODELAY on accepted connections. The default
	// (false) leaves Nagle's algorithm enabled.
	NoDelay bool

	// Logger receives structured log output. If nil, slog.Default() is
	// used. Per-connection events carry connection_id and remote_addr.
	Logger *slog.Logger

	// Clock drives the retry and backoff waits. If nil, the real clock
	// is used.
	Clock clock.Clock
}

func (o Options) withDefaults() Options {
	if o.ListenAddr == "" {
		o.ListenAddr = net.JoinHostPort(protocol.DefaultHost, strconv.Itoa(protocol.DefaultPort))
	}
	if o.Ports == 0 {
		o.Ports = protocol.DefaultPortCount
	}
	if o.InputChannels == 0 {
		o.InputChannels = protocol.DefaultInputChannels
	}
	if o.OutputChannels == 0 {
		o.OutputChannels = protocol.DefaultOutputChannels
	}
	if o.Magic == 0 {
		o.Magic = protocol.DefaultMagic
	}
	if o.MaxFrames == 0 {
		o.MaxFrames = protocol.DefaultMaxFrames
	}
	if o.PollInterval == 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.RetryInterval == 0 {
		o.RetryInterval = DefaultRetryInterval
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Clock == nil {
		o.Clock = clock.Real()
	}
	return o
}

// Validate reports the first inconsistent field after defaults are
// applied.
func (o Options) Validate() error {
	o = o.withDefaults()
	if o.Ports < 1 || o.Ports > MaxPorts {
		return fmt.Errorf("bridge: ports must be between 1 and %d, got %d", MaxPorts, o.Ports)
	}
	if o.InputChannels < 1 {
		return fmt.Errorf("bridge: input channels must be positive, got %d", o.InputChannels)
	}
	if o.OutputChannels < 1 {
		return fmt.Errorf("bridge: output channels must be positive, got %d", o.OutputChannels)
	}
	if o.MaxFrames < 1 {
		return fmt.Errorf("bridge: max frames must be positive, got %d", o.MaxFrames)
	}
	if !protocol.BlockFits(o.MaxFrames, max(o.InputChannels, o.OutputChannels)) {
		return fmt.Errorf("bridge: max frames %d with %d channels exceeds the %d byte block limit",
			o.MaxFrames, max(o.InputChannels, o.OutputChannels), protocol.MaxBlockBytes)
	}
	if o.PollInterval < 0 || o.RetryInterval < 0 {
		return fmt.Errorf("bridge: intervals must not be negative")
	}
	if _, _, err := net.SplitHostPort(o.ListenAddr); err != nil {
		return fmt.Errorf("bridge: invalid listen address %q: %w", o.ListenAddr, err)
	}
	return nil
}
