// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil provides socket helpers shared by the bridge server
// and the status socket.
//
// [IsExpectedCloseError] separates ordinary peer disconnects (EOF,
// closed connection, broken pipe, reset) from failures worth logging.
// [Listen] opens a TCP listener with SO_REUSEADDR set explicitly so a
// restarted bridge can rebind its fixed port while old connections sit
// in TIME_WAIT.
package netutil
