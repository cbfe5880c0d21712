// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package hostaudio provides the audio sinks the standalone host
// attaches to bridge ports.
//
// The portable backends need no audio hardware:
//
//   - loopback returns each client's input to it, channel for channel.
//   - gain does the same with a fixed multiplier.
//
// The native backends are compiled only with the audio_native build
// tag, because they link the platform audio stack through cgo:
//
//   - malgo opens a duplex device per port: client input is played,
//     captured audio is returned to the client.
//   - oto plays client input on the default output device and returns
//     silence.
//
// Native sinks decouple the bridge's block cadence from the device
// callback with a [Ring]. A ring underrun plays silence; an overrun
// drops the oldest samples, so latency stays bounded.
package hostaudio
