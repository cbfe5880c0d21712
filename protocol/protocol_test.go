// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"bytes"
	"io"
	"net"
	"testing"
)

func TestCommandString(t *testing.T) {
	t.Parallel()
	tests := []struct {
		command Command
		want    string
	}{
		{CommandNone, "none"},
		{CommandQuit, "quit"},
		{CommandSetPort, "set-port"},
		{CommandMIDIMessage, "midi-message"},
		{CommandSetSampleRate, "set-sample-rate"},
		{CommandAudioProcess, "audio-process"},
		{Command(42), "command(42)"},
	}
	for _, test := range tests {
		if got := test.command.String(); got != test.want {
			t.Errorf("Command(%d).String() = %q, want %q", byte(test.command), got, test.want)
		}
	}
}

func TestSamplesAreLittleEndian(t *testing.T) {
	t.Parallel()
	data := make([]byte, 2*SampleSize)
	EncodeSamples(data, []float32{1.0, -2.5})

	// 1.0 is 0x3f800000, -2.5 is 0xc0200000.
	want := []byte{0x00, 0x00, 0x80, 0x3f, 0x00, 0x00, 0x20, 0xc0}
	if !bytes.Equal(data, want) {
		t.Fatalf("encoded samples = % x, want % x", data, want)
	}

	decoded := make([]float32, 2)
	DecodeSamples(decoded, data)
	if decoded[0] != 1.0 || decoded[1] != -2.5 {
		t.Fatalf("decoded samples = %v", decoded)
	}
}

func TestReadUint32(t *testing.T) {
	t.Parallel()
	value, err := ReadUint32(bytes.NewReader(AppendUint32(nil, DefaultMagic)))
	if err != nil {
		t.Fatalf("ReadUint32: %v", err)
	}
	if value != DefaultMagic {
		t.Fatalf("ReadUint32 = %#x, want %#x", value, DefaultMagic)
	}

	if _, err := ReadUint32(bytes.NewReader([]byte{1, 2})); err == nil {
		t.Fatal("expected error for short read")
	}
}

// TestClientFraming checks the exact bytes the client puts on the wire
// for each command.
func TestClientFraming(t *testing.T) {
	t.Parallel()
	clientSide, serverSide := net.Pipe()
	defer serverSide.Close()

	received := make(chan []byte, 1)
	go func() {
		data, _ := io.ReadAll(serverSide)
		received <- data
	}()

	client, err := NewClient(clientSide, ClientOptions{InputChannels: 1, OutputChannels: 1})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if err := client.SetPort(3); err != nil {
		t.Fatalf("SetPort: %v", err)
	}
	if err := client.SendMIDI([3]byte{0x90, 60, 100}); err != nil {
		t.Fatalf("SendMIDI: %v", err)
	}
	if err := client.SetSampleRate(48000); err != nil {
		t.Fatalf("SetSampleRate: %v", err)
	}
	if err := client.Quit(); err != nil {
		t.Fatalf("Quit: %v", err)
	}
	client.Close()

	var want []byte
	want = AppendUint32(want, DefaultMagic)
	want = append(want, byte(CommandSetPort), 3)
	want = append(want, byte(CommandMIDIMessage), 0x90, 60, 100)
	want = append(want, byte(CommandSetSampleRate))
	want = AppendUint32(want, 48000)
	want = append(want, byte(CommandQuit))

	got := <-received
	if !bytes.Equal(got, want) {
		t.Fatalf("wire bytes:\n got % x\nwant % x", got, want)
	}
}

func TestClientProcessRejectsPartialFrames(t *testing.T) {
	t.Parallel()
	clientSide, serverSide := net.Pipe()
	defer clientSide.Close()
	go io.Copy(io.Discard, serverSide)

	client, err := NewClient(clientSide, ClientOptions{InputChannels: 2})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := client.Process([]float32{1, 2, 3}); err == nil {
		t.Fatal("expected error for input not divisible by channel count")
	}
	if _, err := client.Process(nil); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestBlockFits(t *testing.T) {
	t.Parallel()
	tests := []struct {
		frames, channels int
		want             bool
	}{
		{DefaultMaxFrames, DefaultInputChannels, true},
		{MaxBlockBytes / SampleSize, 1, true},
		{MaxBlockBytes/SampleSize + 1, 1, false},
		{1, MaxBlockBytes/SampleSize + 1, false},
		{1 << 30, 8, false},
	}
	for _, test := range tests {
		if got := BlockFits(test.frames, test.channels); got != test.want {
			t.Errorf("BlockFits(%d, %d) = %v, want %v", test.frames, test.channels, got, test.want)
		}
	}
}
