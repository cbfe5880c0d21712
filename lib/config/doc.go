// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the audiobridge YAML configuration.
//
// The file is named by the --config flag ([LoadFile]) or the
// AUDIOBRIDGE_CONFIG environment variable ([Load]). Without either, the
// built-in [Default] is used; it matches the protocol defaults. There
// is no search path.
//
// Keys absent from the file keep their defaults. ${VAR} and
// ${VAR:-default} are expanded in the listen address and the status
// socket path. Durations use Go syntax ("100ms").
//
// This package depends on no other audiobridge packages.
package config
