// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package monitor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bureau-foundation/audiobridge/bridge"
)

type staticSource struct {
	snapshot bridge.Snapshot
	err      error
}

func (s staticSource) Snapshot(context.Context) (bridge.Snapshot, error) {
	return s.snapshot, s.err
}

func testSnapshot() bridge.Snapshot {
	return bridge.Snapshot{
		ListenAddr:  "127.0.0.1:12512",
		Listening:   true,
		Connections: 1,
		Ports: []bridge.PortStatus{
			{Port: 0, Name: "Port 1", Bound: true, RemoteAddr: "127.0.0.1:40000", SampleRate: 48000, AudioSink: true, MIDIInputs: 1},
			{Port: 1, Name: "Port 2", AudioSink: true},
			{Port: 2, Name: "Port 3", Bound: true, RemoteAddr: "127.0.0.1:40001", SampleRate: 44100},
		},
	}
}

// load runs Init's fetch and feeds the result back into the model.
func load(t *testing.T, model Model) Model {
	t.Helper()
	message := model.Init()()
	updated, command := model.Update(message)
	if command == nil {
		t.Fatal("snapshot did not schedule the next tick")
	}
	return updated.(Model)
}

func keyPress(model Model, keys string) Model {
	updated, _ := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)})
	return updated.(Model)
}

func TestViewShowsPorts(t *testing.T) {
	t.Parallel()
	model := load(t, NewModel(staticSource{snapshot: testSnapshot()}, time.Second))

	view := model.View()
	for _, want := range []string{"127.0.0.1:12512", "connections 1", "bound 2/3", "Port 1", "127.0.0.1:40000", "48000", "Port 3"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestSelectionMovesAndClamps(t *testing.T) {
	t.Parallel()
	model := load(t, NewModel(staticSource{snapshot: testSnapshot()}, time.Second))

	model = keyPress(model, "k")
	if port, _ := model.Selected(); port.Port != 0 {
		t.Fatalf("selection moved above the first row: %d", port.Port)
	}
	model = keyPress(keyPress(keyPress(model, "j"), "j"), "j")
	if port, _ := model.Selected(); port.Port != 2 {
		t.Fatalf("selection = %d, want clamp at 2", port.Port)
	}
	model = keyPress(model, "g")
	if port, _ := model.Selected(); port.Port != 0 {
		t.Fatalf("home selection = %d, want 0", port.Port)
	}
}

func TestBoundOnlyFilter(t *testing.T) {
	t.Parallel()
	model := load(t, NewModel(staticSource{snapshot: testSnapshot()}, time.Second))
	model = keyPress(model, "G")
	model = keyPress(model, "b")

	if got := len(model.visiblePorts()); got != 2 {
		t.Fatalf("bound-only shows %d ports, want 2", got)
	}
	if port, ok := model.Selected(); !ok || port.Port != 2 {
		t.Fatalf("selection after filter = %+v, %v", port, ok)
	}
	if strings.Contains(model.View(), "Port 2") {
		t.Fatal("unbound port shown with bound-only filter")
	}
}

func TestErrorKeepsLastSnapshot(t *testing.T) {
	t.Parallel()
	model := load(t, NewModel(staticSource{snapshot: testSnapshot()}, time.Second))

	updated, _ := model.Update(snapshotMsg{err: errors.New("connection refused"), at: time.Now()})
	model = updated.(Model)
	view := model.View()
	if !strings.Contains(view, "connection refused") || !strings.Contains(view, "Port 1") {
		t.Fatalf("view after error:\n%s", view)
	}
}

func TestTickFetches(t *testing.T) {
	t.Parallel()
	model := NewModel(staticSource{snapshot: testSnapshot()}, time.Second)
	_, command := model.Update(tickMsg{})
	if command == nil {
		t.Fatal("tick did not fetch")
	}
	if _, ok := command().(snapshotMsg); !ok {
		t.Fatal("tick command did not produce a snapshot")
	}
}

func TestQuit(t *testing.T) {
	t.Parallel()
	model := NewModel(staticSource{}, 0)
	_, command := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if command == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := command().(tea.QuitMsg); !ok {
		t.Fatal("q did not quit")
	}
}
