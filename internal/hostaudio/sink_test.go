// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hostaudio

import (
	"errors"
	"io"
	"log/slog"
	"slices"
	"testing"
)

func testOptions(inputs, outputs int) Options {
	return Options{
		InputChannels:  inputs,
		OutputChannels: outputs,
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestChannelSinkRemix(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		inputs  int
		outputs int
		gain    float32
		input   []float32
		want    []float32
	}{
		{"matched", 2, 2, 1, []float32{1, 2, 3, 4}, []float32{1, 2, 3, 4}},
		{"gain", 2, 2, 0.5, []float32{1, 2, 3, 4}, []float32{0.5, 1, 1.5, 2}},
		{"more outputs", 1, 2, 1, []float32{1, 2}, []float32{1, 0, 2, 0}},
		{"fewer outputs", 3, 1, 2, []float32{1, 2, 3, 4, 5, 6}, []float32{2, 8}},
	}
	for _, test := range tests {
		options := testOptions(test.inputs, test.outputs)
		options.Gain = test.gain
		sink := NewChannelSink(0, options)

		frames := len(test.input) / test.inputs
		output := make([]float32, frames*test.outputs)
		sink.SetBlockSize(frames)
		sink.ProcessStream(test.input, output, frames)
		if !slices.Equal(output, test.want) {
			t.Errorf("%s: output = %v, want %v", test.name, output, test.want)
		}
		if sink.BlockSize() != frames {
			t.Errorf("%s: BlockSize = %d, want %d", test.name, sink.BlockSize(), frames)
		}
	}
}

func TestChannelSinkSampleRate(t *testing.T) {
	t.Parallel()
	sink := NewChannelSink(3, testOptions(1, 1))
	sink.SetSampleRate(44100)
	if sink.SampleRate() != 44100 {
		t.Fatalf("SampleRate = %d", sink.SampleRate())
	}
}

func TestOpen(t *testing.T) {
	t.Parallel()
	for _, name := range []string{Loopback, Gain} {
		backend, err := Open(name, testOptions(2, 2))
		if err != nil {
			t.Fatalf("Open(%s): %v", name, err)
		}
		sink, err := backend.NewSink(1)
		if err != nil || sink == nil {
			t.Fatalf("%s NewSink = %v, %v", name, sink, err)
		}
		if err := backend.Close(); err != nil {
			t.Fatalf("%s Close: %v", name, err)
		}
	}

	if _, err := Open("jack", testOptions(2, 2)); err == nil {
		t.Fatal("Open of an unknown backend succeeded")
	}
}

func TestLoopbackIgnoresGain(t *testing.T) {
	t.Parallel()
	options := testOptions(1, 1)
	options.Gain = 4
	backend, _ := Open(Loopback, options)
	sink, _ := backend.NewSink(0)

	output := make([]float32, 1)
	sink.ProcessStream([]float32{0.25}, output, 1)
	if output[0] != 0.25 {
		t.Fatalf("loopback output = %v, want 0.25", output[0])
	}
}

// Default test builds carry no native audio.
func TestNativeBackendsRequireBuildTag(t *testing.T) {
	t.Parallel()
	if !nativeBuilt {
		for _, name := range []string{Malgo, Oto} {
			if _, err := Open(name, testOptions(2, 2)); !errors.Is(err, ErrNotBuilt) {
				t.Errorf("Open(%s) = %v, want ErrNotBuilt", name, err)
			}
		}
	}
}
