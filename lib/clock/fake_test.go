// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"testing"
	"time"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFakeClockNow(t *testing.T) {
	clock := Fake(epoch)
	if got := clock.Now(); !got.Equal(epoch) {
		t.Fatalf("Now() = %v, want %v", got, epoch)
	}
	clock.Advance(5 * time.Second)
	if got, want := clock.Now(), epoch.Add(5*time.Second); !got.Equal(want) {
		t.Fatalf("Now() after Advance = %v, want %v", got, want)
	}
}

func TestFakeClockAfter(t *testing.T) {
	clock := Fake(epoch)
	channel := clock.After(100 * time.Millisecond)

	clock.Advance(50 * time.Millisecond)
	select {
	case <-channel:
		t.Fatal("After fired before its deadline")
	default:
	}
	if clock.Pending() != 1 {
		t.Fatalf("Pending() = %d, want 1", clock.Pending())
	}

	clock.Advance(50 * time.Millisecond)
	select {
	case fired := <-channel:
		if want := epoch.Add(100 * time.Millisecond); !fired.Equal(want) {
			t.Fatalf("fired at %v, want %v", fired, want)
		}
	default:
		t.Fatal("After did not fire at its deadline")
	}
	if clock.Pending() != 0 {
		t.Fatalf("Pending() = %d after firing, want 0", clock.Pending())
	}
}

func TestFakeClockAfterNonPositive(t *testing.T) {
	clock := Fake(epoch)
	for _, d := range []time.Duration{0, -time.Second} {
		select {
		case <-clock.After(d):
		default:
			t.Fatalf("After(%v) should fire immediately", d)
		}
	}
	if clock.Pending() != 0 {
		t.Fatalf("non-positive After registered %d waiters", clock.Pending())
	}
}

func TestFakeClockSleep(t *testing.T) {
	clock := Fake(epoch)
	done := make(chan struct{})
	go func() {
		clock.Sleep(time.Second)
		close(done)
	}()

	clock.WaitForWaiters(1)
	clock.Advance(time.Second)

	select {
	case <-done:
	case <-time.After(5 * time.Second): //nolint:realclock test hang prevention
		t.Fatal("Sleep did not return after Advance")
	}
}
