// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/audiobridge/internal/cli"
	"github.com/bureau-foundation/audiobridge/internal/monitor"
	"github.com/bureau-foundation/audiobridge/lib/process"
	"github.com/bureau-foundation/audiobridge/lib/version"
)

func main() {
	if err := run(); err != nil {
		process.Fatal(err)
	}
}

func run() error {
	var (
		configPath  string
		socketPath  string
		interval    time.Duration
		showVersion bool
	)

	flagSet := pflag.NewFlagSet("audiobridge-monitor", pflag.ContinueOnError)
	flagSet.StringVarP(&configPath, "config", "c", "", "path to the YAML config used to find the status socket")
	flagSet.StringVarP(&socketPath, "socket", "s", "", "status socket path (overrides the config)")
	flagSet.DurationVarP(&interval, "interval", "i", time.Second, "poll interval")
	flagSet.BoolVar(&showVersion, "version", false, "print version information and exit")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if showVersion {
		version.Print(os.Stdout, "audiobridge-monitor")
		return nil
	}
	if interval <= 0 {
		return fmt.Errorf("--interval must be positive")
	}

	if socketPath == "" {
		cfg, err := cli.LoadConfig(configPath)
		if err != nil {
			return err
		}
		socketPath = cfg.Status.Socket
	}

	model := monitor.NewModel(monitor.NewSocketSource(socketPath), interval)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running monitor: %w", err)
	}
	return nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `audiobridge-monitor - live view of an audio bridge

USAGE
    audiobridge-monitor [flags]

FLAGS
%s
KEYS
    j/k, arrows   move selection
    g/G           first / last port
    b             show only bound ports
    r             refresh now
    q             quit
`, flagSet.FlagUsages())
}
