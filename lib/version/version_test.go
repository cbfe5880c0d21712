// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrint(t *testing.T) {
	var buffer bytes.Buffer
	Print(&buffer, "audiobridge")

	line := buffer.String()
	if !strings.HasPrefix(line, "audiobridge "+Version+" (") || !strings.HasSuffix(line, ")\n") {
		t.Fatalf("Print wrote %q", line)
	}
}

func TestFullIncludesPlatform(t *testing.T) {
	full := Full()
	if !strings.HasPrefix(full, Info()) || !strings.Contains(full, "Platform: ") {
		t.Fatalf("Full() = %q", full)
	}
}
