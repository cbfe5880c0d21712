// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build midi_native

package hostmidi

import (
	"fmt"
	"log/slog"
	"sync"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"github.com/bureau-foundation/audiobridge/bridge"
)

const nativeBuilt = true

type rtmidiBackend struct {
	driver *rtmididrv.Driver
	logger *slog.Logger

	mutex sync.Mutex
	ports []drivers.Out
}

func openRtMIDI(logger *slog.Logger) (Backend, error) {
	driver, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("hostmidi: opening rtmidi: %w", err)
	}
	return &rtmidiBackend{driver: driver, logger: logger}, nil
}

func (b *rtmidiBackend) NewInput(port int) (bridge.MIDIInput, error) {
	name := VirtualPortName(port)
	out, err := b.driver.OpenVirtualOut(name)
	if err != nil {
		return nil, fmt.Errorf("hostmidi: creating virtual output %q: %w", name, err)
	}

	b.mutex.Lock()
	b.ports = append(b.ports, out)
	b.mutex.Unlock()

	b.logger.Info("virtual MIDI output available", "port", port, "name", name)
	return &VirtualOutput{out: out, logger: b.logger.With("port", port)}, nil
}

func (b *rtmidiBackend) Close() error {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	for _, out := range b.ports {
		out.Close()
	}
	b.ports = nil
	return b.driver.Close()
}

// VirtualOutput forwards bridge MIDI to a virtual rtmidi output.
type VirtualOutput struct {
	out    drivers.Out
	logger *slog.Logger
}

var _ bridge.MIDIInput = (*VirtualOutput)(nil)

// OnMessage implements bridge.MIDIInput.
func (v *VirtualOutput) OnMessage(message midi.Message) {
	if err := v.out.Send(message); err != nil {
		v.logger.Warn("forwarding MIDI failed", append(Attributes(message), "error", err)...)
	}
}
