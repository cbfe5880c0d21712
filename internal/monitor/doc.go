// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package monitor is a terminal UI showing live bridge state: the
// listener, connection count, and for each port its client, sample
// rate, audio sink, and MIDI subscribers.
//
// [Model] is a bubbletea model that polls a [Source] on an interval.
// [SocketSource] reads snapshots from the bridge's status socket.
package monitor
