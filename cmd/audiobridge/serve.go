// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/bureau-foundation/audiobridge/bridge"
	"github.com/bureau-foundation/audiobridge/internal/cli"
	"github.com/bureau-foundation/audiobridge/internal/hostaudio"
	"github.com/bureau-foundation/audiobridge/internal/hostmidi"
	"github.com/bureau-foundation/audiobridge/internal/monitor"
	"github.com/bureau-foundation/audiobridge/lib/config"
	"github.com/bureau-foundation/audiobridge/lib/service"
)

func runServe(ctx context.Context, options flags) error {
	cfg, err := cli.LoadConfig(options.configPath)
	if err != nil {
		return err
	}
	applyOverrides(cfg, options)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	level := cfg.LogLevel()
	if options.verbose {
		level = slog.LevelDebug
	}
	logger := cli.NewLogger(level)
	slog.SetDefault(logger)

	host := bridge.NewHost(hostOptions(cfg, logger))
	attachments, err := attach(host, cfg, logger)
	if err != nil {
		return err
	}
	defer attachments.detach()

	if err := host.Start(ctx); err != nil {
		return err
	}

	group, ctx := errgroup.WithContext(ctx)
	if cfg.Status.Enabled {
		server := service.NewSocketServer(cfg.Status.Socket, logger)
		registerStatus(server, host)
		group.Go(func() error {
			return server.Serve(ctx)
		})
	}
	group.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		host.Shutdown()
		return nil
	})
	return group.Wait()
}

func applyOverrides(cfg *config.Config, options flags) {
	if options.listen != "" {
		cfg.Bridge.Listen = options.listen
	}
	if options.socket != "" {
		cfg.Status.Socket = options.socket
	}
}

func hostOptions(cfg *config.Config, logger *slog.Logger) bridge.Options {
	return bridge.Options{
		ListenAddr:     cfg.Bridge.Listen,
		Ports:          cfg.Bridge.Ports,
		InputChannels:  cfg.Bridge.InputChannels,
		OutputChannels: cfg.Bridge.OutputChannels,
		Magic:          cfg.Bridge.Hello,
		MaxFrames:      cfg.Bridge.MaxFrames,
		PollInterval:   cfg.Bridge.PollInterval,
		RetryInterval:  cfg.Bridge.RetryInterval,
		NoDelay:        cfg.Bridge.NoDelay,
		Logger:         logger,
	}
}

func registerStatus(server *service.SocketServer, host *bridge.Host) {
	server.Handle(monitor.StatusAction, func(ctx context.Context, raw []byte) (any, error) {
		return host.Snapshot(), nil
	})
}

// attachments records what was subscribed so it can be undone.
type attachments struct {
	host   *bridge.Host
	audio  hostaudio.Backend
	midi   hostmidi.Backend
	sinks  map[int]bridge.AudioSink
	inputs map[int]bridge.MIDIInput
	logger *slog.Logger
}

// attach opens the configured backends and subscribes one sink and one
// MIDI input to each host port.
func attach(host *bridge.Host, cfg *config.Config, logger *slog.Logger) (*attachments, error) {
	result := &attachments{
		host:   host,
		sinks:  make(map[int]bridge.AudioSink),
		inputs: make(map[int]bridge.MIDIInput),
		logger: logger,
	}

	var err error
	if cfg.Host.Audio != config.AudioNone {
		result.audio, err = hostaudio.Open(cfg.Host.Audio, hostaudio.Options{
			InputChannels:  cfg.Bridge.InputChannels,
			OutputChannels: cfg.Bridge.OutputChannels,
			Gain:           cfg.Host.Gain,
			Logger:         logger,
		})
		if err != nil {
			return nil, err
		}
	}
	if cfg.Host.MIDI != config.MIDINone {
		result.midi, err = hostmidi.Open(cfg.Host.MIDI, logger)
		if err != nil {
			result.detach()
			return nil, err
		}
	}

	for _, port := range cfg.HostPorts() {
		if err := result.attachPort(port); err != nil {
			result.detach()
			return nil, err
		}
	}
	logger.Info("host attached",
		"audio", cfg.Host.Audio,
		"midi", cfg.Host.MIDI,
		"ports", cfg.HostPorts(),
	)
	return result, nil
}

func (a *attachments) attachPort(port int) error {
	if a.audio != nil {
		sink, err := a.audio.NewSink(port)
		if err != nil {
			return fmt.Errorf("creating audio sink for port %d: %w", port, err)
		}
		if !a.host.AudioSubscribe(port, sink) {
			return fmt.Errorf("port %d already has an audio sink", port)
		}
		a.sinks[port] = sink
	}
	if a.midi != nil {
		input, err := a.midi.NewInput(port)
		if err != nil {
			return fmt.Errorf("creating MIDI input for port %d: %w", port, err)
		}
		if !a.host.MIDISubscribe(port, input) {
			return fmt.Errorf("port %d has no MIDI device", port)
		}
		a.inputs[port] = input
	}
	return nil
}

// detach unsubscribes everything, then closes the backends.
func (a *attachments) detach() {
	for port, sink := range a.sinks {
		a.host.AudioUnsubscribe(port, sink)
		switch closer := sink.(type) {
		case interface{ Close() error }:
			if err := closer.Close(); err != nil {
				a.logger.Warn("closing audio sink", "port", port, "error", err)
			}
		case interface{ Close() }:
			closer.Close()
		}
	}
	for port, input := range a.inputs {
		a.host.MIDIUnsubscribe(port, input)
	}
	var errs []error
	if a.audio != nil {
		errs = append(errs, a.audio.Close())
	}
	if a.midi != nil {
		errs = append(errs, a.midi.Close())
	}
	if err := errors.Join(errs...); err != nil {
		a.logger.Warn("closing host backends", "error", err)
	}
	a.sinks = map[int]bridge.AudioSink{}
	a.inputs = map[int]bridge.MIDIInput{}
}
