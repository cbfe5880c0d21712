// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli holds what the audiobridge commands share: logger
// construction and config loading.
package cli
