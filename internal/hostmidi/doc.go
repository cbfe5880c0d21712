// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package hostmidi provides the MIDI inputs the standalone host
// subscribes to bridge ports.
//
// The log backend records every message with slog, decoded into note
// and controller fields where possible. The rtmidi backend, built only
// with the midi_native tag, republishes each bridge port as a virtual
// MIDI output ("audiobridge Port N") so other applications on the
// machine can receive what bridge clients send.
package hostmidi
