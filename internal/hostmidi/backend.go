// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hostmidi

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/bureau-foundation/audiobridge/bridge"
)

// ErrNotBuilt is returned when the rtmidi backend is requested from a
// binary built without the midi_native tag.
var ErrNotBuilt = errors.New("hostmidi: native MIDI driver is not included in this build (build with -tags midi_native)")

// Backend names.
const (
	Log    = "log"
	RtMIDI = "rtmidi"
)

// VirtualPortPrefix starts the name of every virtual output.
const VirtualPortPrefix = "audiobridge"

// Backend creates one MIDI input per port.
type Backend interface {
	NewInput(port int) (bridge.MIDIInput, error)
	Close() error
}

// Open returns the backend called name.
func Open(name string, logger *slog.Logger) (Backend, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch name {
	case Log:
		return logBackend{logger: logger}, nil
	case RtMIDI:
		return openRtMIDI(logger)
	default:
		return nil, fmt.Errorf("hostmidi: unknown backend %q", name)
	}
}

// VirtualPortName returns the name of the virtual output for port.
func VirtualPortName(port int) string {
	return fmt.Sprintf("%s Port %d", VirtualPortPrefix, port+1)
}

type logBackend struct {
	logger *slog.Logger
}

func (b logBackend) NewInput(port int) (bridge.MIDIInput, error) {
	return NewLogInput(port, b.logger), nil
}

func (logBackend) Close() error { return nil }
