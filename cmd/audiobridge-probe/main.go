// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/audiobridge/lib/process"
	"github.com/bureau-foundation/audiobridge/lib/version"
	"github.com/bureau-foundation/audiobridge/protocol"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		process.Fatal(err)
	}
}

type probeOptions struct {
	address        string
	port           uint8
	sampleRate     uint32
	frames         int
	blocks         int
	frequency      float64
	amplitude      float64
	note           int
	inputChannels  int
	outputChannels int
	magic          string
	timeout        time.Duration
}

func run(args []string, stdout io.Writer) error {
	var options probeOptions
	var showVersion bool

	flagSet := pflag.NewFlagSet("audiobridge-probe", pflag.ContinueOnError)
	flagSet.StringVarP(&options.address, "address", "a",
		net.JoinHostPort(protocol.DefaultHost, strconv.Itoa(protocol.DefaultPort)), "bridge address")
	flagSet.Uint8VarP(&options.port, "port", "p", 0, "port index to bind")
	flagSet.Uint32VarP(&options.sampleRate, "rate", "r", 48000, "sample rate to declare (0 to skip)")
	flagSet.IntVarP(&options.frames, "frames", "f", 256, "frames per block")
	flagSet.IntVarP(&options.blocks, "blocks", "n", 8, "number of blocks to send")
	flagSet.Float64Var(&options.frequency, "tone", 440, "sine frequency in Hz (0 for silence)")
	flagSet.Float64Var(&options.amplitude, "amplitude", 0.5, "sine amplitude")
	flagSet.IntVar(&options.note, "note", -1, "MIDI note to play on channel 1 before the audio (-1 for none)")
	flagSet.IntVar(&options.inputChannels, "inputs", protocol.DefaultInputChannels, "input channels per frame")
	flagSet.IntVar(&options.outputChannels, "outputs", protocol.DefaultOutputChannels, "output channels per frame")
	flagSet.StringVar(&options.magic, "magic", fmt.Sprintf("%#x", protocol.DefaultMagic), "handshake token")
	flagSet.DurationVar(&options.timeout, "timeout", 5*time.Second, "connect and per-block timeout")
	flagSet.BoolVar(&showVersion, "version", false, "print version information and exit")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if showVersion {
		version.Print(stdout, "audiobridge-probe")
		return nil
	}
	if options.frames <= 0 || options.blocks < 0 {
		return fmt.Errorf("--frames must be positive and --blocks non-negative")
	}
	if options.note > 127 {
		return fmt.Errorf("--note %d out of range", options.note)
	}
	magic, err := strconv.ParseUint(options.magic, 0, 32)
	if err != nil {
		return fmt.Errorf("parsing --magic: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := protocol.Dial(ctx, options.address, protocol.ClientOptions{
		Magic:          uint32(magic),
		InputChannels:  options.inputChannels,
		OutputChannels: options.outputChannels,
		DialTimeout:    options.timeout,
	})
	if err != nil {
		return err
	}
	defer client.Close()

	return probe(ctx, client, options, stdout)
}

// probe runs one session on an established client.
func probe(ctx context.Context, client *protocol.Client, options probeOptions, stdout io.Writer) error {
	if err := client.SetPort(options.port); err != nil {
		return closed(err)
	}
	if options.sampleRate > 0 {
		if err := client.SetSampleRate(options.sampleRate); err != nil {
			return closed(err)
		}
	}
	if options.note >= 0 {
		if err := client.SendMIDI([3]byte{0x90, byte(options.note), 100}); err != nil {
			return closed(err)
		}
	}

	rate := float64(options.sampleRate)
	if rate == 0 {
		rate = 48000
	}
	input := make([]float32, options.frames*options.inputChannels)
	phase := 0.0
	for block := range options.blocks {
		if ctx.Err() != nil {
			break
		}
		phase = fillSine(input, options.inputChannels, options.frequency, options.amplitude, rate, phase)

		client.Conn().SetDeadline(time.Now().Add(options.timeout))
		output, err := client.Process(input)
		if err != nil {
			return closed(err)
		}
		fmt.Fprintf(stdout, "block %d: in %.4f rms, out %.4f rms\n", block, rms(input), rms(output))
	}

	if options.note >= 0 {
		if err := client.SendMIDI([3]byte{0x80, byte(options.note), 0}); err != nil {
			return closed(err)
		}
	}
	if err := client.Quit(); err != nil {
		return closed(err)
	}
	return nil
}

// closed maps a lost connection to exit status 2.
func closed(err error) error {
	return &process.ExitError{Code: 2, Err: fmt.Errorf("bridge closed the connection: %w", err)}
}

// fillSine writes the same sine into every channel of the interleaved
// buffer and returns the phase to continue from.
func fillSine(buffer []float32, channels int, frequency, amplitude, sampleRate, phase float64) float64 {
	step := 2 * math.Pi * frequency / sampleRate
	for frame := range len(buffer) / channels {
		value := float32(amplitude * math.Sin(phase))
		for channel := range channels {
			buffer[frame*channels+channel] = value
		}
		phase = math.Mod(phase+step, 2*math.Pi)
	}
	return phase
}

func rms(samples []float32) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, sample := range samples {
		sum += float64(sample) * float64(sample)
	}
	return math.Sqrt(sum / float64(len(samples)))
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `audiobridge-probe - send test audio through an audio bridge port

USAGE
    audiobridge-probe [flags]

FLAGS
%s
EXAMPLES
    # Eight blocks of A440 through port 3
    audiobridge-probe --port 3

    # Play middle C on port 0 and listen to the result
    audiobridge-probe --note 60 --tone 0 --blocks 64
`, flagSet.FlagUsages())
}
