// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package netutil

import (
	"context"
	"net"
	"syscall"
)

// Listen opens a TCP listener on address with SO_REUSEADDR enabled.
func Listen(ctx context.Context, address string) (net.Listener, error) {
	config := net.ListenConfig{
		Control: func(network, address string, raw syscall.RawConn) error {
			var sockoptErr error
			if err := raw.Control(func(fd uintptr) {
				sockoptErr = setReuseAddr(fd)
			}); err != nil {
				return err
			}
			return sockoptErr
		},
	}
	return config.Listen(ctx, "tcp", address)
}
