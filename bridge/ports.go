// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bridge

import (
	"net"
	"sync"
)

// AudioSink is the host side of one port's audio stream. The host
// registers a sink per port; the bridge pushes the bound client's
// sample rate into it and runs it on every audio block the client
// sends.
//
// Sinks are compared by identity, so implementations must be
// comparable (in practice, pointer types). Methods are called with the
// port's slot lock held and must not call back into the PortTable for
// the same port.
type AudioSink interface {
	// SetSampleRate reports the bound client's declared sample rate.
	SetSampleRate(sampleRate int)

	// SetBlockSize reports the frame count of the block about to be
	// processed.
	SetBlockSize(frames int)

	// ProcessStream consumes frames of interleaved input and fills
	// frames of interleaved output in place. The output is zeroed
	// before the call.
	ProcessStream(input, output []float32, frames int)
}

// PortClient is the connection side of a port binding.
type PortClient interface {
	// SampleRate returns the client's last declared sample rate, or 0
	// if it has not declared one.
	SampleRate() int
}

type portSlot struct {
	mutex  sync.RWMutex
	holder PortClient
	sink   AudioSink
}

// PortTable is the registry of bridge ports. Each slot independently
// holds at most one bound client and at most one registered audio
// sink. Every operation is atomic with respect to its slot; different
// ports never contend.
type PortTable struct {
	slots []*portSlot
}

// NewPortTable creates a table with count empty slots.
func NewPortTable(count int) *PortTable {
	slots := make([]*portSlot, count)
	for i := range slots {
		slots[i] = &portSlot{}
	}
	return &PortTable{slots: slots}
}

// Len returns the number of ports.
func (t *PortTable) Len() int {
	return len(t.slots)
}

// slot returns the slot for port, or nil when port is out of range.
func (t *PortTable) slot(port int) *portSlot {
	if port < 0 || port >= len(t.slots) {
		return nil
	}
	return t.slots[port]
}

// Bind claims port for client. It fails, without changing anything,
// when port is out of range or already held by any client (including
// client itself). On success the port's sink, if any, receives the
// client's sample rate.
func (t *PortTable) Bind(port int, client PortClient) bool {
	slot := t.slot(port)
	if slot == nil {
		return false
	}
	slot.mutex.Lock()
	defer slot.mutex.Unlock()

	if slot.holder != nil {
		return false
	}
	slot.holder = client
	slot.refreshLocked()
	return true
}

// Unbind releases port if and only if client currently holds it. A
// stale unbind from a client that lost the port is a no-op.
func (t *PortTable) Unbind(port int, client PortClient) bool {
	slot := t.slot(port)
	if slot == nil {
		return false
	}
	slot.mutex.Lock()
	defer slot.mutex.Unlock()

	if slot.holder != client {
		return false
	}
	slot.holder = nil
	return true
}

// Release unbinds client from every port it holds.
func (t *PortTable) Release(client PortClient) {
	for port := range t.slots {
		t.Unbind(port, client)
	}
}

// SetPort moves client to port: whatever client held is released
// first, then port is claimed. It returns the bound port, or -1 when
// port is out of range or occupied. A negative port only releases.
func (t *PortTable) SetPort(client PortClient, port int) int {
	t.Release(client)
	if port < 0 || !t.Bind(port, client) {
		return -1
	}
	return port
}

// Holder returns the client bound to port, or nil.
func (t *PortTable) Holder(port int) PortClient {
	slot := t.slot(port)
	if slot == nil {
		return nil
	}
	slot.mutex.RLock()
	defer slot.mutex.RUnlock()
	return slot.holder
}

// RegisterAudioSink installs sink on port. Only one sink per port is
// accepted; registering while another is present is rejected. If a
// client already holds the port, the new sink receives its sample
// rate.
func (t *PortTable) RegisterAudioSink(port int, sink AudioSink) bool {
	slot := t.slot(port)
	if slot == nil || sink == nil {
		return false
	}
	slot.mutex.Lock()
	defer slot.mutex.Unlock()

	if slot.sink != nil {
		return false
	}
	slot.sink = sink
	slot.refreshLocked()
	return true
}

// UnregisterAudioSink removes sink from port if it is the registered
// one. Once it returns, the bridge never calls sink again.
func (t *PortTable) UnregisterAudioSink(port int, sink AudioSink) bool {
	slot := t.slot(port)
	if slot == nil {
		return false
	}
	slot.mutex.Lock()
	defer slot.mutex.Unlock()

	if slot.sink == nil || slot.sink != sink {
		return false
	}
	slot.sink = nil
	return true
}

// Refresh pushes the bound client's sample rate into the port's sink
// when both are present. Called by the connection after it declares a
// new rate.
func (t *PortTable) Refresh(port int, client PortClient) {
	slot := t.slot(port)
	if slot == nil {
		return
	}
	slot.mutex.Lock()
	defer slot.mutex.Unlock()

	if slot.holder != client {
		return
	}
	slot.refreshLocked()
}

// refreshLocked requires slot.mutex held for writing. The holder's
// rate is pushed as is, including 0 when none was declared.
func (s *portSlot) refreshLocked() {
	if s.holder == nil || s.sink == nil {
		return
	}
	s.sink.SetSampleRate(s.holder.SampleRate())
}

// Process runs the port's sink over one block on behalf of client.
// It reports whether a sink ran; when client does not hold port or no
// sink is registered, output is left untouched.
func (t *PortTable) Process(port int, client PortClient, input, output []float32, frames int) bool {
	slot := t.slot(port)
	if slot == nil {
		return false
	}
	slot.mutex.RLock()
	defer slot.mutex.RUnlock()

	if slot.holder != client || slot.sink == nil {
		return false
	}
	slot.sink.SetBlockSize(frames)
	slot.sink.ProcessStream(input, output, frames)
	return true
}

// PortState is a point-in-time view of one slot.
type PortState struct {
	Bound      bool
	RemoteAddr string
	SampleRate int
	AudioSink  bool
}

// State returns a view of port, or false if port is out of range.
func (t *PortTable) State(port int) (PortState, bool) {
	slot := t.slot(port)
	if slot == nil {
		return PortState{}, false
	}
	slot.mutex.RLock()
	defer slot.mutex.RUnlock()

	state := PortState{AudioSink: slot.sink != nil}
	if slot.holder != nil {
		state.Bound = true
		state.SampleRate = slot.holder.SampleRate()
		if addressed, ok := slot.holder.(interface{ RemoteAddr() net.Addr }); ok {
			if address := addressed.RemoteAddr(); address != nil {
				state.RemoteAddr = address.String()
			}
		}
	}
	return state, true
}
