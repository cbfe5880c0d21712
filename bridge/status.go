// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bridge

// Snapshot is a point-in-time view of the bridge, served on the status
// socket and rendered by the monitor.
type Snapshot struct {
	// ListenAddr is the bound listener address, or the configured one
	// while the server is not bound.
	ListenAddr string `json:"listen_addr"`

	// Listening reports whether a listener is currently bound.
	Listening bool `json:"listening"`

	Connections int          `json:"connections"`
	Ports       []PortStatus `json:"ports"`
}

// PortStatus describes one port.
type PortStatus struct {
	Port       int    `json:"port"`
	Name       string `json:"name"`
	Bound      bool   `json:"bound"`
	RemoteAddr string `json:"remote_addr,omitempty"`
	SampleRate int    `json:"sample_rate,omitempty"`
	AudioSink  bool   `json:"audio_sink"`
	MIDIInputs int    `json:"midi_inputs"`
}

// BoundPorts returns how many ports have a client.
func (s Snapshot) BoundPorts() int {
	count := 0
	for _, port := range s.Ports {
		if port.Bound {
			count++
		}
	}
	return count
}

// Snapshot collects the current state of every port. Ports are read
// one at a time, so the result is consistent per port but not across
// ports.
func (h *Host) Snapshot() Snapshot {
	snapshot := Snapshot{
		ListenAddr:  h.server.ListenAddr(),
		Connections: h.server.ConnectionCount(),
		Ports:       make([]PortStatus, 0, h.ports.Len()),
	}
	if address := h.server.Addr(); address != nil {
		snapshot.ListenAddr = address.String()
		snapshot.Listening = true
	}
	for port := range h.ports.Len() {
		state, _ := h.ports.State(port)
		status := PortStatus{
			Port:       port,
			Bound:      state.Bound,
			RemoteAddr: state.RemoteAddr,
			SampleRate: state.SampleRate,
			AudioSink:  state.AudioSink,
		}
		if device := h.midi.Device(port); device != nil {
			status.Name = device.Name()
			status.MIDIInputs = device.Subscribers()
		}
		snapshot.Ports = append(snapshot.Ports, status)
	}
	return snapshot
}
