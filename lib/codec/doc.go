// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec holds the CBOR configuration shared by the status
// socket server and its clients.
//
// The audio wire protocol is raw binary (package protocol); CBOR is
// only used on the local control plane, where the bridge answers
// status requests from the CLI and the monitor. Every encoder uses
// Core Deterministic Encoding, so the same snapshot always produces
// the same bytes.
//
// Types that are also printed as JSON (bridge.Snapshot, for example)
// carry only `json` tags; fxamacker/cbor falls back to them when no
// `cbor` tag is present. Envelope types that never leave the socket
// carry `cbor` tags. Never put both on one field.
package codec
