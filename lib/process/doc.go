// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package process holds entrypoint helpers for the audiobridge
// commands: reporting a fatal error on stderr before or after the
// structured logger exists, and choosing the exit status.
package process
