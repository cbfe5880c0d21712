// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package monitor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bureau-foundation/audiobridge/bridge"
)

// DefaultInterval is the polling period.
const DefaultInterval = 500 * time.Millisecond

// fetchTimeout bounds one snapshot request.
const fetchTimeout = 2 * time.Second

type snapshotMsg struct {
	snapshot bridge.Snapshot
	err      error
	at       time.Time
}

type tickMsg struct{}

// Model is the bubbletea model of the monitor.
type Model struct {
	source   Source
	interval time.Duration
	keys     KeyMap
	theme    Theme
	help     help.Model

	snapshot bridge.Snapshot
	err      error
	updated  time.Time
	loaded   bool

	selected  int
	boundOnly bool
	width     int
	height    int
}

// NewModel creates a monitor polling source every interval. A
// non-positive interval means DefaultInterval.
func NewModel(source Source, interval time.Duration) Model {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return Model{
		source:   source,
		interval: interval,
		keys:     DefaultKeyMap,
		theme:    DefaultTheme,
		help:     help.New(),
	}
}

// Init fetches the first snapshot.
func (model Model) Init() tea.Cmd {
	return model.fetch()
}

func (model Model) fetch() tea.Cmd {
	source := model.source
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		snapshot, err := source.Snapshot(ctx)
		return snapshotMsg{snapshot: snapshot, err: err, at: time.Now()}
	}
}

func (model Model) scheduleTick() tea.Cmd {
	return tea.Tick(model.interval, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// Update handles snapshots, ticks, keys, and resizes.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case snapshotMsg:
		if message.err != nil {
			model.err = message.err
		} else {
			model.err = nil
			model.snapshot = message.snapshot
			model.loaded = true
			model.clampSelection()
		}
		model.updated = message.at
		return model, model.scheduleTick()

	case tickMsg:
		return model, model.fetch()

	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.help.Width = message.Width
		return model, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(message, model.keys.Quit):
			return model, tea.Quit
		case key.Matches(message, model.keys.Up):
			model.selected--
		case key.Matches(message, model.keys.Down):
			model.selected++
		case key.Matches(message, model.keys.Home):
			model.selected = 0
		case key.Matches(message, model.keys.End):
			model.selected = len(model.visiblePorts()) - 1
		case key.Matches(message, model.keys.BoundOnly):
			model.boundOnly = !model.boundOnly
		case key.Matches(message, model.keys.Refresh):
			return model, model.fetch()
		}
		model.clampSelection()
		return model, nil
	}
	return model, nil
}

func (model *Model) clampSelection() {
	count := len(model.visiblePorts())
	if model.selected >= count {
		model.selected = count - 1
	}
	if model.selected < 0 {
		model.selected = 0
	}
}

// visiblePorts applies the bound-only filter.
func (model Model) visiblePorts() []bridge.PortStatus {
	if !model.boundOnly {
		return model.snapshot.Ports
	}
	var ports []bridge.PortStatus
	for _, port := range model.snapshot.Ports {
		if port.Bound {
			ports = append(ports, port)
		}
	}
	return ports
}

// Selected returns the highlighted port, or false when none is shown.
func (model Model) Selected() (bridge.PortStatus, bool) {
	ports := model.visiblePorts()
	if model.selected < 0 || model.selected >= len(ports) {
		return bridge.PortStatus{}, false
	}
	return ports[model.selected], true
}

const rowFormat = " %-4s %-8s %-22s %7s  %-4s  %4s"

// View renders the header, the port table, and the key help.
func (model Model) View() string {
	var builder strings.Builder
	theme := model.theme

	header := lipgloss.NewStyle().Bold(true).Foreground(theme.HeaderForeground)
	faint := lipgloss.NewStyle().Foreground(theme.FaintText)

	switch {
	case !model.loaded && model.err == nil:
		builder.WriteString(faint.Render("connecting…"))
		builder.WriteString("\n")
		return builder.String()
	case model.loaded:
		listening := "not listening"
		if model.snapshot.Listening {
			listening = "listening"
		}
		builder.WriteString(header.Render(fmt.Sprintf("audiobridge %s  %s  connections %d  bound %d/%d",
			model.snapshot.ListenAddr, listening, model.snapshot.Connections,
			model.snapshot.BoundPorts(), len(model.snapshot.Ports))))
		builder.WriteString("\n")
	}
	if model.err != nil {
		builder.WriteString(lipgloss.NewStyle().Foreground(theme.ErrorForeground).Render("error: " + model.err.Error()))
		builder.WriteString("\n")
	}
	if !model.loaded {
		return builder.String()
	}

	builder.WriteString(faint.Render(fmt.Sprintf(rowFormat, "#", "NAME", "CLIENT", "RATE", "SINK", "MIDI")))
	builder.WriteString("\n")

	for index, port := range model.visiblePorts() {
		client, rate := "-", "-"
		if port.Bound {
			client = port.RemoteAddr
			if client == "" {
				client = "bound"
			}
		}
		if port.SampleRate > 0 {
			rate = fmt.Sprintf("%d", port.SampleRate)
		}
		sink := "-"
		if port.AudioSink {
			sink = "yes"
		}
		row := fmt.Sprintf(rowFormat, fmt.Sprintf("%d", port.Port), port.Name, client, rate, sink,
			fmt.Sprintf("%d", port.MIDIInputs))

		style := lipgloss.NewStyle().Foreground(theme.NormalText)
		if port.Bound {
			style = style.Foreground(theme.BoundForeground)
		}
		if index == model.selected {
			style = style.Background(theme.SelectedBackground).Foreground(theme.SelectedForeground)
		}
		builder.WriteString(style.Render(row))
		builder.WriteString("\n")
	}

	if !model.updated.IsZero() {
		builder.WriteString(faint.Render("updated " + model.updated.Format("15:04:05")))
		builder.WriteString("\n")
	}
	builder.WriteString(model.help.View(model.keys))
	return builder.String()
}
