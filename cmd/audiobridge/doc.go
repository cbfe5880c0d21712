// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Audiobridge runs the audio bridge as a standalone host.
//
// "audiobridge serve" (the default) listens for bridge clients, attaches
// the configured audio sink and MIDI input to each port, and answers
// status requests on a local Unix socket. "audiobridge status" queries
// that socket and prints every port, as a table or with --json.
package main
