// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"github.com/bureau-foundation/audiobridge/lib/config"
)

// LoadConfig reads path when given, else the file named by
// AUDIOBRIDGE_CONFIG, else the defaults.
func LoadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}
