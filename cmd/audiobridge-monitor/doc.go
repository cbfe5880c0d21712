// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Audiobridge-monitor is a terminal dashboard for a running audio
// bridge. It polls the status socket and shows each port's client,
// sample rate, and attached sink and MIDI inputs.
package main
