// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source.
//
// The bridge server waits on a clock between failed listen attempts
// and after transient accept errors. Tests replace the real clock with
// a [FakeClock] so those waits fire only when the test calls Advance:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	server := bridge.NewServer(ports, midi, bridge.Options{Clock: c, ...})
//	// ... start the server against an occupied address ...
//	c.WaitForWaiters(1)           // the retry loop is sleeping
//	c.Advance(100 * time.Millisecond) // wake it deterministically
package clock
