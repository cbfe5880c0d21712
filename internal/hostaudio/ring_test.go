// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hostaudio

import (
	"slices"
	"testing"
)

func TestRingFIFO(t *testing.T) {
	t.Parallel()
	ring := NewRing(4)
	ring.Write([]float32{1, 2, 3})

	got := make([]float32, 2)
	if n := ring.Read(got); n != 2 || !slices.Equal(got, []float32{1, 2}) {
		t.Fatalf("Read = %d %v, want 2 [1 2]", n, got)
	}

	// Wraps around the end of the backing array.
	ring.Write([]float32{4, 5, 6})
	got = make([]float32, 4)
	if n := ring.Read(got); n != 4 || !slices.Equal(got, []float32{3, 4, 5, 6}) {
		t.Fatalf("Read = %d %v, want 4 [3 4 5 6]", n, got)
	}
}

func TestRingUnderrunZeroes(t *testing.T) {
	t.Parallel()
	ring := NewRing(8)
	ring.Write([]float32{7})

	got := []float32{9, 9, 9}
	if n := ring.Read(got); n != 1 {
		t.Fatalf("Read = %d, want 1", n)
	}
	if !slices.Equal(got, []float32{7, 0, 0}) {
		t.Fatalf("Read filled %v, want [7 0 0]", got)
	}
}

func TestRingOverflowDropsOldest(t *testing.T) {
	t.Parallel()
	ring := NewRing(3)
	ring.Write([]float32{1, 2})
	ring.Write([]float32{3, 4})

	if ring.Len() != 3 || ring.Dropped() != 1 {
		t.Fatalf("Len = %d, Dropped = %d, want 3 and 1", ring.Len(), ring.Dropped())
	}
	got := make([]float32, 3)
	ring.Read(got)
	if !slices.Equal(got, []float32{2, 3, 4}) {
		t.Fatalf("Read = %v, want [2 3 4]", got)
	}

	ring.Write([]float32{10, 11, 12, 13, 14})
	ring.Read(got)
	if !slices.Equal(got, []float32{12, 13, 14}) {
		t.Fatalf("oversized write kept %v, want the newest [12 13 14]", got)
	}
}

func TestRingReset(t *testing.T) {
	t.Parallel()
	ring := NewRing(4)
	ring.Write([]float32{1, 2})
	ring.Reset()
	if ring.Len() != 0 {
		t.Fatalf("Len after Reset = %d", ring.Len())
	}
}
