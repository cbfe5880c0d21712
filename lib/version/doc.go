// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports build information for the audiobridge
// commands.
//
// Values are injected with -ldflags, for example:
//
//	go build -ldflags "-X github.com/bureau-foundation/audiobridge/lib/version.GitCommit=$(git rev-parse --short HEAD)"
//
// Without injection the commit falls back to the VCS stamp in the
// binary's build info, and the version reads "0.1.0-dev".
package version
