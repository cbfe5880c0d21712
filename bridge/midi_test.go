// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bridge

import (
	"bytes"
	"slices"
	"testing"

	"gitlab.com/gomidi/midi/v2"
)

// recordingInput buffers every delivered message.
type recordingInput struct {
	messages chan midi.Message
}

func newRecordingInput() *recordingInput {
	return &recordingInput{messages: make(chan midi.Message, 16)}
}

func (r *recordingInput) OnMessage(message midi.Message) {
	r.messages <- message
}

func TestMIDIDriverEnumeration(t *testing.T) {
	t.Parallel()
	driver := NewMIDIDriver(3)

	if driver.Name() != "Bridge" {
		t.Errorf("Name() = %q, want Bridge", driver.Name())
	}
	if ids := driver.InputDeviceIDs(); !slices.Equal(ids, []int{0, 1, 2}) {
		t.Errorf("InputDeviceIDs() = %v", ids)
	}
	if name := driver.InputDeviceName(0); name != "Port 1" {
		t.Errorf("InputDeviceName(0) = %q, want Port 1", name)
	}
	if name := driver.InputDeviceName(2); name != "Port 3" {
		t.Errorf("InputDeviceName(2) = %q, want Port 3", name)
	}
	if name := driver.InputDeviceName(3); name != "" {
		t.Errorf("InputDeviceName(3) = %q, want empty", name)
	}
	if driver.Subscribe(-1, newRecordingInput()) != nil {
		t.Error("Subscribe(-1) returned a device")
	}
}

func TestMIDIDeliverReachesOnlyPortSubscribers(t *testing.T) {
	t.Parallel()
	driver := NewMIDIDriver(2)
	portZero, portOne := newRecordingInput(), newRecordingInput()

	device := driver.Subscribe(0, portZero)
	if device == nil || device.Port() != 0 {
		t.Fatalf("Subscribe(0) = %v", device)
	}
	driver.Subscribe(1, portOne)

	sent := midi.NoteOn(0, 60, 100)
	if !driver.Deliver(0, sent) {
		t.Fatal("Deliver(0) reported out of range")
	}

	select {
	case got := <-portZero.messages:
		if !bytes.Equal(got, sent) {
			t.Fatalf("delivered % x, want % x", []byte(got), []byte(sent))
		}
	default:
		t.Fatal("port 0 subscriber received nothing")
	}
	if len(portOne.messages) != 0 {
		t.Fatal("port 1 subscriber received a port 0 message")
	}
}

func TestMIDISubscribeIsIdempotent(t *testing.T) {
	t.Parallel()
	driver := NewMIDIDriver(1)
	input := newRecordingInput()

	driver.Subscribe(0, input)
	driver.Subscribe(0, input)
	if got := driver.Device(0).Subscribers(); got != 1 {
		t.Fatalf("Subscribers() = %d after duplicate subscribe, want 1", got)
	}

	driver.Deliver(0, midi.NoteOff(0, 60))
	if len(input.messages) != 1 {
		t.Fatalf("input received %d messages, want 1", len(input.messages))
	}

	driver.Unsubscribe(0, input)
	driver.Deliver(0, midi.NoteOff(0, 60))
	if len(input.messages) != 1 {
		t.Fatal("input received a message after unsubscribe")
	}
}

func TestMIDIDeliverCopiesPerSubscriber(t *testing.T) {
	t.Parallel()
	driver := NewMIDIDriver(1)
	first, second := newRecordingInput(), newRecordingInput()
	driver.Subscribe(0, first)
	driver.Subscribe(0, second)

	sent := midi.Message{0xb0, 7, 127}
	driver.Deliver(0, sent)

	got := <-first.messages
	got[2] = 0
	if other := <-second.messages; other[2] != 127 {
		t.Fatal("subscribers share one message buffer")
	}
	if sent[2] != 127 {
		t.Fatal("subscriber modified the sender's buffer")
	}
}
