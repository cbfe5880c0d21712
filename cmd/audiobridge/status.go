// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/bureau-foundation/audiobridge/bridge"
	"github.com/bureau-foundation/audiobridge/internal/cli"
	"github.com/bureau-foundation/audiobridge/internal/monitor"
)

func runStatus(ctx context.Context, options flags, w io.Writer) error {
	cfg, err := cli.LoadConfig(options.configPath)
	if err != nil {
		return err
	}
	applyOverrides(cfg, options)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	snapshot, err := monitor.NewSocketSource(cfg.Status.Socket).Snapshot(ctx)
	if err != nil {
		return err
	}

	if options.json {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(snapshot)
	}
	return printSnapshot(w, snapshot)
}

func printSnapshot(w io.Writer, snapshot bridge.Snapshot) error {
	state := "not listening"
	if snapshot.Listening {
		state = "listening"
	}
	fmt.Fprintf(w, "%s (%s), %d connections, %d/%d ports bound\n\n",
		snapshot.ListenAddr, state, snapshot.Connections, snapshot.BoundPorts(), len(snapshot.Ports))

	table := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(table, "PORT\tNAME\tCLIENT\tRATE\tSINK\tMIDI")
	for _, port := range snapshot.Ports {
		client, rate, sink := "-", "-", "-"
		if port.Bound {
			client = port.RemoteAddr
		}
		if port.SampleRate > 0 {
			rate = fmt.Sprint(port.SampleRate)
		}
		if port.AudioSink {
			sink = "yes"
		}
		fmt.Fprintf(table, "%d\t%s\t%s\t%s\t%s\t%d\n", port.Port, port.Name, client, rate, sink, port.MIDIInputs)
	}
	return table.Flush()
}
