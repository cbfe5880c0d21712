// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !midi_native

package hostmidi

import "log/slog"

const nativeBuilt = false

func openRtMIDI(*slog.Logger) (Backend, error) {
	return nil, ErrNotBuilt
}
