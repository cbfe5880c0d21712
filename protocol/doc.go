// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package protocol defines the audio bridge wire format and a client
// for it.
//
// A session starts with the client sending a 4-byte handshake token
// ([DefaultMagic]). The server sends nothing back; a mismatched token
// closes the connection. After the handshake the client sends a stream
// of commands, each introduced by a one-byte [Command]:
//
//	quit             (no payload)
//	set-port         uint8 port index
//	midi-message     3 raw MIDI bytes
//	set-sample-rate  uint32
//	audio-process    uint32 frames, frames*inputs float32 samples
//
// Only audio-process has a reply: frames*outputs float32 samples.
// Every multi-byte field is little-endian ([ByteOrder]), including on
// big-endian hosts.
//
// Contention is silent at the wire level: binding an occupied or
// out-of-range port leaves the connection unbound and sends nothing.
//
// [Client] implements the client side for tools and tests.
package protocol
