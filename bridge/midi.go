// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bridge

import (
	"fmt"
	"slices"
	"sync"

	"gitlab.com/gomidi/midi/v2"
)

// MIDIDriverName is the name the bridge's MIDI driver reports to the
// host.
const MIDIDriverName = "Bridge"

// MIDIDriverID identifies the bridge driver among the host's MIDI
// drivers. Negative so it never collides with hardware driver IDs.
const MIDIDriverID = -12512

// MIDIInput is a host-side consumer of one port's MIDI stream. Inputs
// are compared by identity, so implementations must be comparable
// (in practice, pointer types).
//
// OnMessage is called with the device lock held, on the goroutine of
// the delivering connection. It must not block and must not subscribe
// or unsubscribe on the same device. The message is the caller's copy.
type MIDIInput interface {
	OnMessage(message midi.Message)
}

// MIDIDevice is the virtual MIDI source for one bridge port. Host
// inputs subscribe to it; a client bound to the port feeds it.
type MIDIDevice struct {
	port   int
	mutex  sync.Mutex
	inputs []MIDIInput
}

// Port returns the device's port index.
func (d *MIDIDevice) Port() int {
	return d.port
}

// Name returns the device's display name, "Port N" with N one-based.
func (d *MIDIDevice) Name() string {
	return fmt.Sprintf("Port %d", d.port+1)
}

// Subscribe adds input to the device. Subscribing an input twice has
// no effect.
func (d *MIDIDevice) Subscribe(input MIDIInput) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if slices.Contains(d.inputs, input) {
		return
	}
	d.inputs = append(d.inputs, input)
}

// Unsubscribe removes input from the device.
func (d *MIDIDevice) Unsubscribe(input MIDIInput) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.inputs = slices.DeleteFunc(d.inputs, func(existing MIDIInput) bool {
		return existing == input
	})
}

// Subscribers returns the number of subscribed inputs.
func (d *MIDIDevice) Subscribers() int {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return len(d.inputs)
}

// Deliver hands message to every subscribed input. Each input gets its
// own copy. With no subscribers the message is dropped.
func (d *MIDIDevice) Deliver(message midi.Message) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	for _, input := range d.inputs {
		input.OnMessage(slices.Clone(message))
	}
}

// MIDIDriver enumerates one MIDIDevice per bridge port.
type MIDIDriver struct {
	devices []*MIDIDevice
}

// NewMIDIDriver creates count devices, one per port.
func NewMIDIDriver(count int) *MIDIDriver {
	devices := make([]*MIDIDevice, count)
	for i := range devices {
		devices[i] = &MIDIDevice{port: i}
	}
	return &MIDIDriver{devices: devices}
}

// Name returns MIDIDriverName.
func (d *MIDIDriver) Name() string {
	return MIDIDriverName
}

// InputDeviceIDs returns the IDs of every device, 0 through N-1.
func (d *MIDIDriver) InputDeviceIDs() []int {
	ids := make([]int, len(d.devices))
	for i := range ids {
		ids[i] = i
	}
	return ids
}

// InputDeviceName returns the name of device id, or "" if id is out of
// range.
func (d *MIDIDriver) InputDeviceName(id int) string {
	device := d.Device(id)
	if device == nil {
		return ""
	}
	return device.Name()
}

// Device returns device id, or nil if id is out of range.
func (d *MIDIDriver) Device(id int) *MIDIDevice {
	if id < 0 || id >= len(d.devices) {
		return nil
	}
	return d.devices[id]
}

// Subscribe attaches input to device id and returns the device, or nil
// if id is out of range.
func (d *MIDIDriver) Subscribe(id int, input MIDIInput) *MIDIDevice {
	device := d.Device(id)
	if device == nil {
		return nil
	}
	device.Subscribe(input)
	return device
}

// Unsubscribe detaches input from device id. Out-of-range IDs are
// ignored.
func (d *MIDIDriver) Unsubscribe(id int, input MIDIInput) {
	if device := d.Device(id); device != nil {
		device.Unsubscribe(input)
	}
}

// Deliver broadcasts message to the subscribers of port. It reports
// false if port is out of range.
func (d *MIDIDriver) Deliver(port int, message midi.Message) bool {
	device := d.Device(port)
	if device == nil {
		return false
	}
	device.Deliver(message)
	return true
}
