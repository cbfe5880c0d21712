// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/audiobridge/lib/process"
	"github.com/bureau-foundation/audiobridge/lib/version"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		process.Fatal(err)
	}
}

// flags shared by every subcommand.
type flags struct {
	configPath string
	listen     string
	socket     string
	verbose    bool
	json       bool
}

func run(args []string) error {
	if len(args) > 0 && args[0] == "--version" {
		version.Print(os.Stdout, "audiobridge")
		return nil
	}

	command := "serve"
	if len(args) > 0 && (args[0] == "serve" || args[0] == "status") {
		command, args = args[0], args[1:]
	}

	var options flags
	flagSet := pflag.NewFlagSet("audiobridge "+command, pflag.ContinueOnError)
	flagSet.StringVarP(&options.configPath, "config", "c", "", "path to the YAML config (default: $AUDIOBRIDGE_CONFIG, else built-in defaults)")
	flagSet.StringVarP(&options.socket, "socket", "s", "", "status socket path (overrides status.socket)")
	flagSet.BoolVarP(&options.verbose, "verbose", "v", false, "log at debug level")
	if command == "serve" {
		flagSet.StringVarP(&options.listen, "listen", "l", "", "TCP address to listen on (overrides bridge.listen)")
	} else {
		flagSet.BoolVar(&options.json, "json", false, "print the snapshot as JSON")
	}
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected argument: %s", rest[0])
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if command == "status" {
		return runStatus(ctx, options, os.Stdout)
	}
	return runServe(ctx, options)
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `audiobridge - bridge external audio programs into a host over TCP

USAGE
    audiobridge [serve] [flags]
    audiobridge status [flags]

Clients connect to 127.0.0.1:12512 by default, bind one of 16 ports,
and exchange interleaved float32 audio and MIDI with the host.

FLAGS
%s
EXAMPLES
    # Serve with a config file, debug logging
    audiobridge --config /etc/audiobridge.yaml -v

    # Show which clients hold which ports
    audiobridge status
`, flagSet.FlagUsages())
}
