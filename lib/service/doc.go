// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package service implements the bridge's local control socket: a
// Unix socket speaking one CBOR request and one CBOR response per
// connection.
//
// A request is a CBOR map with an "action" key plus action-specific
// fields. The reply is a [Response]: {ok, error, data}. The bridge
// registers a "status" action that returns a snapshot of every port;
// the CLI's status command and the monitor are its clients.
//
// The socket has no authentication. Access is controlled by the file
// permissions of the socket path.
package service
