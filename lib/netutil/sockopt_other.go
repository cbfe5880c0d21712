// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !unix

package netutil

// setReuseAddr is a no-op where SO_REUSEADDR has different semantics
// (Windows lets a second socket steal the port).
func setReuseAddr(fd uintptr) error { return nil }
