// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bridge

import (
	"context"
	"log/slog"
)

// Host is the lifecycle façade the embedding application talks to. It
// owns the port table, the MIDI driver, and the server, and exposes
// subscribe and unsubscribe for host-side audio sinks and MIDI inputs.
//
// A Host is usable before Start: sinks and inputs registered early are
// in place when the first client binds.
type Host struct {
	ports  *PortTable
	midi   *MIDIDriver
	server *Server
	logger *slog.Logger
}

// NewHost builds the bridge with options. Nothing runs until Start.
func NewHost(options Options) *Host {
	options = options.withDefaults()
	ports := NewPortTable(options.Ports)
	midiDriver := NewMIDIDriver(options.Ports)
	return &Host{
		ports:  ports,
		midi:   midiDriver,
		server: NewServer(ports, midiDriver, options),
		logger: options.Logger,
	}
}

// Start launches the server. See Server.Start.
func (h *Host) Start(ctx context.Context) error {
	return h.server.Start(ctx)
}

// Stop stops accepting clients. Sessions already connected keep their
// ports and run until their clients leave. See Server.Stop.
func (h *Host) Stop() {
	h.server.Stop()
}

// Shutdown stops the server and closes every remaining session, so
// that all ports are released when it returns.
func (h *Host) Shutdown() {
	h.server.Stop()
	h.server.CloseConnections()
}

// AudioSubscribe registers sink for port. It returns false if port is
// out of range or already has a sink.
func (h *Host) AudioSubscribe(port int, sink AudioSink) bool {
	if !h.ports.RegisterAudioSink(port, sink) {
		h.logger.Debug("audio subscribe rejected", "port", port)
		return false
	}
	return true
}

// AudioUnsubscribe removes sink from port if it is the registered one.
// After it returns, sink is never called again.
func (h *Host) AudioUnsubscribe(port int, sink AudioSink) {
	h.ports.UnregisterAudioSink(port, sink)
}

// MIDISubscribe attaches input to the MIDI device of port. It returns
// false if port is out of range.
func (h *Host) MIDISubscribe(port int, input MIDIInput) bool {
	return h.midi.Subscribe(port, input) != nil
}

// MIDIUnsubscribe detaches input from the MIDI device of port.
func (h *Host) MIDIUnsubscribe(port int, input MIDIInput) {
	h.midi.Unsubscribe(port, input)
}

// MIDI returns the bridge's MIDI driver for host-side enumeration.
func (h *Host) MIDI() *MIDIDriver {
	return h.midi
}

// Ports returns the port table.
func (h *Host) Ports() *PortTable {
	return h.ports
}

// Server returns the TCP server.
func (h *Host) Server() *Server {
	return h.server
}
