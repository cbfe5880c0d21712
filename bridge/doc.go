// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package bridge connects external audio programs to a host over TCP.
//
// Clients speak the binary protocol defined in package protocol. Each
// client binds itself to one of a fixed number of ports, declares its
// sample rate, sends MIDI, and exchanges blocks of interleaved float32
// audio with whatever the host has registered on that port.
//
// The pieces:
//
//   - [PortTable] holds, per port, at most one bound client and at most
//     one host [AudioSink]. Each slot has its own lock; a client's audio
//     block runs the sink under the slot's read lock, so unregistering
//     a sink waits for an in-flight block and no call follows it.
//   - [MIDIDriver] exposes one [MIDIDevice] per port, named "Port 1"
//     through "Port N", to which host [MIDIInput] values subscribe.
//   - [Connection] is the per-client state machine: handshake, then a
//     command loop that ends on quit, a bad command, an out-of-range
//     frame count, or a socket failure. Contention is silent: binding
//     an occupied port leaves the client unbound and sends nothing.
//   - [Server] owns the listener. A failed bind is logged and retried
//     on the injected clock; Start never fails because the address is
//     busy. Stop closes the listener and returns promptly.
//   - [Host] is the façade an application embeds.
//
// Every log line from a connection carries connection_id and
// remote_addr.
package bridge
