// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package monitor

import (
	"context"

	"github.com/bureau-foundation/audiobridge/bridge"
	"github.com/bureau-foundation/audiobridge/lib/service"
)

// StatusAction is the status socket action that returns a
// bridge.Snapshot.
const StatusAction = "status"

// Source supplies bridge snapshots.
type Source interface {
	Snapshot(ctx context.Context) (bridge.Snapshot, error)
}

// SocketSource reads snapshots from a status socket.
type SocketSource struct {
	client *service.Client
}

// NewSocketSource returns a source for the socket at socketPath.
func NewSocketSource(socketPath string) *SocketSource {
	return &SocketSource{client: service.NewClient(socketPath)}
}

func (s *SocketSource) Snapshot(ctx context.Context) (bridge.Snapshot, error) {
	var snapshot bridge.Snapshot
	err := s.client.Call(ctx, StatusAction, nil, &snapshot)
	return snapshot, err
}

// HostSource reads snapshots from an in-process host.
type HostSource struct {
	Host *bridge.Host
}

func (s HostSource) Snapshot(context.Context) (bridge.Snapshot, error) {
	return s.Host.Snapshot(), nil
}
