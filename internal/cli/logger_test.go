// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestLoggerHandlerChoice(t *testing.T) {
	t.Parallel()

	var piped bytes.Buffer
	newLogger(&piped, false, slog.LevelInfo).Info("bridge server started", "listen_addr", "127.0.0.1:12512")
	var record map[string]any
	if err := json.Unmarshal(piped.Bytes(), &record); err != nil {
		t.Fatalf("non-terminal output is not JSON: %v: %s", err, piped.String())
	}
	if record["listen_addr"] != "127.0.0.1:12512" {
		t.Fatalf("record = %v", record)
	}

	var terminal bytes.Buffer
	newLogger(&terminal, true, slog.LevelInfo).Info("bridge server started")
	if !strings.Contains(terminal.String(), `msg="bridge server started"`) {
		t.Fatalf("terminal output is not text: %s", terminal.String())
	}
}

func TestLoggerLevel(t *testing.T) {
	t.Parallel()
	var output bytes.Buffer
	logger := newLogger(&output, true, slog.LevelWarn)
	logger.Info("dropped")
	logger.Warn("kept")
	if strings.Contains(output.String(), "dropped") || !strings.Contains(output.String(), "kept") {
		t.Fatalf("output = %s", output.String())
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("AUDIOBRIDGE_CONFIG", "")
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Bridge.Ports != 16 {
		t.Fatalf("ports = %d", cfg.Bridge.Ports)
	}
}
