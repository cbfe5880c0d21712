// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bureau-foundation/audiobridge/bridge"
	"github.com/bureau-foundation/audiobridge/lib/config"
	"github.com/bureau-foundation/audiobridge/lib/service"
	"github.com/bureau-foundation/audiobridge/lib/testutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Bridge.Listen = "127.0.0.1:0"
	cfg.Bridge.Ports = 4
	cfg.Host.Audio = config.AudioLoopback
	cfg.Host.MIDI = config.MIDILog
	return cfg
}

func TestAttachSubscribesEveryHostPort(t *testing.T) {
	cfg := testConfig()
	cfg.Host.Ports = []int{0, 2}
	logger := discardLogger()
	host := bridge.NewHost(hostOptions(cfg, logger))

	attached, err := attach(host, cfg, logger)
	if err != nil {
		t.Fatalf("attach: %v", err)
	}

	snapshot := host.Snapshot()
	for _, port := range snapshot.Ports {
		want := port.Port == 0 || port.Port == 2
		if port.AudioSink != want {
			t.Errorf("port %d AudioSink = %v, want %v", port.Port, port.AudioSink, want)
		}
		if (port.MIDIInputs == 1) != want {
			t.Errorf("port %d MIDIInputs = %d", port.Port, port.MIDIInputs)
		}
	}

	attached.detach()
	for _, port := range host.Snapshot().Ports {
		if port.AudioSink || port.MIDIInputs != 0 {
			t.Errorf("port %d still attached after detach: %+v", port.Port, port)
		}
	}
}

func TestAttachNoneBackends(t *testing.T) {
	cfg := testConfig()
	cfg.Host.Audio = config.AudioNone
	cfg.Host.MIDI = config.MIDINone
	logger := discardLogger()
	host := bridge.NewHost(hostOptions(cfg, logger))

	attached, err := attach(host, cfg, logger)
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	defer attached.detach()
	for _, port := range host.Snapshot().Ports {
		if port.AudioSink || port.MIDIInputs != 0 {
			t.Errorf("port %d attached with none backends", port.Port)
		}
	}
}

func TestAttachRejectsOutOfRangePort(t *testing.T) {
	cfg := testConfig()
	cfg.Host.Ports = []int{9}
	logger := discardLogger()
	host := bridge.NewHost(hostOptions(cfg, logger))

	if _, err := attach(host, cfg, logger); err == nil {
		t.Fatal("expected error attaching port 9 of 4")
	}
}

func TestStatusOverSocket(t *testing.T) {
	cfg := testConfig()
	cfg.Status.Socket = filepath.Join(testutil.SocketDir(t), "status.sock")
	logger := discardLogger()
	host := bridge.NewHost(hostOptions(cfg, logger))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := host.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer host.Shutdown()
	testutil.RequireClosed(t, host.Server().Ready(), 5*time.Second, "bridge listening")

	server := service.NewSocketServer(cfg.Status.Socket, logger)
	registerStatus(server, host)
	served := make(chan error, 1)
	go func() { served <- server.Serve(ctx) }()
	testutil.RequireClosed(t, server.Ready(), 5*time.Second, "status socket ready")

	var output bytes.Buffer
	if err := runStatus(ctx, flags{socket: cfg.Status.Socket}, &output); err != nil {
		t.Fatalf("runStatus: %v", err)
	}
	text := output.String()
	for _, want := range []string{"0/4 ports bound", "PORT", "Port 1", "Port 4"} {
		if !strings.Contains(text, want) {
			t.Errorf("status output missing %q:\n%s", want, text)
		}
	}

	output.Reset()
	if err := runStatus(ctx, flags{socket: cfg.Status.Socket, json: true}, &output); err != nil {
		t.Fatalf("runStatus --json: %v", err)
	}
	if !strings.Contains(output.String(), `"listening": true`) {
		t.Errorf("JSON output missing listening flag:\n%s", output.String())
	}

	cancel()
	testutil.RequireReceive[error](t, served, 5*time.Second, "status server exit")
}
