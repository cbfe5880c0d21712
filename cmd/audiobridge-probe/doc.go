// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Audiobridge-probe is a test client for the audio bridge. It binds a
// port, declares a sample rate, optionally plays a MIDI note, and sends
// blocks of a sine tone, printing the level of each reply.
//
// A probe that binds an occupied port gets silence back, since the
// bridge never acknowledges SetPort. The probe exits with status 2 when
// the bridge closes the connection mid-session.
package main
