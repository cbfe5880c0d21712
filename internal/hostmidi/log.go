// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hostmidi

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"gitlab.com/gomidi/midi/v2"

	"github.com/bureau-foundation/audiobridge/bridge"
)

// LogInput logs every message it receives at debug level and counts
// them.
type LogInput struct {
	port     int
	logger   *slog.Logger
	received atomic.Uint64
}

var _ bridge.MIDIInput = (*LogInput)(nil)

// NewLogInput creates an input for port.
func NewLogInput(port int, logger *slog.Logger) *LogInput {
	return &LogInput{port: port, logger: logger.With("port", port)}
}

// OnMessage implements bridge.MIDIInput.
func (l *LogInput) OnMessage(message midi.Message) {
	l.received.Add(1)
	if !l.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	l.logger.Debug("midi message", Attributes(message)...)
}

// Received returns the number of messages seen.
func (l *LogInput) Received() uint64 {
	return l.received.Load()
}

// Attributes decodes message into slog attributes: the message type,
// its raw bytes, and channel, key, velocity, controller, or value when
// the type carries them.
func Attributes(message midi.Message) []any {
	var channel, first, second uint8
	attributes := []any{
		"type", message.Type().String(),
		"bytes", fmt.Sprintf("% x", []byte(message)),
	}
	switch {
	case message.GetNoteOn(&channel, &first, &second):
		attributes = append(attributes, "channel", channel, "key", first, "velocity", second)
	case message.GetNoteOff(&channel, &first, &second):
		attributes = append(attributes, "channel", channel, "key", first, "velocity", second)
	case message.GetControlChange(&channel, &first, &second):
		attributes = append(attributes, "channel", channel, "controller", first, "value", second)
	}
	return attributes
}
