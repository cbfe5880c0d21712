// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers.
//
// [RequireReceive] and [RequireClosed] wrap the select-with-timeout
// pattern so tests that wait on goroutines (connection handlers, the
// server's serve loop, MIDI subscribers) fail instead of hanging. They
// are the only place tests use a real wall-clock timeout.
//
// [SocketDir] returns a short directory under /tmp for Unix domain
// sockets, which are limited to 108-byte paths.
//
// All helpers call t.Fatalf on failure.
package testutil
