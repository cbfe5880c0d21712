// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"regexp"
	"slices"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/audiobridge/protocol"
)

// EnvironmentVariable names the config file when --config is absent.
const EnvironmentVariable = "AUDIOBRIDGE_CONFIG"

// Config is the audiobridge configuration file.
type Config struct {
	Bridge BridgeConfig `yaml:"bridge"`
	Log    LogConfig    `yaml:"log"`
	Status StatusConfig `yaml:"status"`
	Host   HostConfig   `yaml:"host"`
}

// BridgeConfig configures the TCP server.
type BridgeConfig struct {
	// Listen is the TCP address, host:port.
	Listen string `yaml:"listen"`

	Ports          int `yaml:"ports"`
	InputChannels  int `yaml:"input_channels"`
	OutputChannels int `yaml:"output_channels"`

	// Hello is the handshake token. Written in hex in YAML
	// (hello: 0xff00fefd).
	Hello uint32 `yaml:"hello"`

	MaxFrames     int           `yaml:"max_frames"`
	PollInterval  time.Duration `yaml:"poll_interval"`
	RetryInterval time.Duration `yaml:"retry_interval"`
	NoDelay       bool          `yaml:"no_delay"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
}

// StatusConfig configures the local status socket.
type StatusConfig struct {
	Enabled bool   `yaml:"enabled"`
	Socket  string `yaml:"socket"`
}

// HostConfig selects what the standalone host attaches to each port.
type HostConfig struct {
	// Audio is the sink backend: none, loopback, gain, malgo, or oto.
	Audio string `yaml:"audio"`

	// Gain is the multiplier of the gain backend.
	Gain float32 `yaml:"gain"`

	// MIDI is the MIDI backend: none, log, or rtmidi.
	MIDI string `yaml:"midi"`

	// Ports lists the port indices the host attaches to. Empty means
	// every port.
	Ports []int `yaml:"ports"`
}

// Audio backends.
const (
	AudioNone     = "none"
	AudioLoopback = "loopback"
	AudioGain     = "gain"
	AudioMalgo    = "malgo"
	AudioOto      = "oto"
)

// MIDI backends.
const (
	MIDINone   = "none"
	MIDILog    = "log"
	MIDIRtMIDI = "rtmidi"
)

var (
	audioBackends = []string{AudioNone, AudioLoopback, AudioGain, AudioMalgo, AudioOto}
	midiBackends  = []string{MIDINone, MIDILog, MIDIRtMIDI}
	logLevels     = []string{"debug", "info", "warn", "error"}
)

// Default returns the configuration used when no file is given. Its
// values match the protocol defaults, so a client built against the
// defaults connects without any configuration.
func Default() *Config {
	return &Config{
		Bridge: BridgeConfig{
			Listen:         "127.0.0.1:12512",
			Ports:          16,
			InputChannels:  8,
			OutputChannels: 8,
			Hello:          0xff00fefd,
			MaxFrames:      1 << 16,
			PollInterval:   100 * time.Millisecond,
			RetryInterval:  100 * time.Millisecond,
		},
		Log: LogConfig{
			Level: "info",
		},
		Status: StatusConfig{
			Enabled: true,
			Socket:  "${XDG_RUNTIME_DIR:-/tmp}/audiobridge.sock",
		},
		Host: HostConfig{
			Audio: AudioLoopback,
			Gain:  1,
			MIDI:  MIDILog,
		},
	}
}

// Load reads the file named by AUDIOBRIDGE_CONFIG. When the variable is
// unset it returns Default(), expanded.
func Load() (*Config, error) {
	path := os.Getenv(EnvironmentVariable)
	if path == "" {
		cfg := Default()
		cfg.expandVariables()
		return cfg, nil
	}
	return LoadFile(path)
}

// LoadFile reads path over the defaults. Keys absent from the file
// keep their default values.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and expands variables.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.expandVariables()
	return cfg, nil
}

func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}
	c.Bridge.Listen = expandVars(c.Bridge.Listen, vars)
	c.Status.Socket = expandVars(c.Status.Socket, vars)
}

// varPattern matches ${VAR} and ${VAR:-default}.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}
		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var errs []error

	if _, port, err := net.SplitHostPort(c.Bridge.Listen); err != nil {
		errs = append(errs, fmt.Errorf("bridge.listen: %w", err))
	} else if number, err := strconv.Atoi(port); err != nil || number < 0 || number > 65535 {
		errs = append(errs, fmt.Errorf("bridge.listen: invalid port %q", port))
	}
	if c.Bridge.Ports < 1 || c.Bridge.Ports > 256 {
		errs = append(errs, fmt.Errorf("bridge.ports must be between 1 and 256, got %d", c.Bridge.Ports))
	}
	if c.Bridge.InputChannels < 1 {
		errs = append(errs, fmt.Errorf("bridge.input_channels must be positive"))
	}
	if c.Bridge.OutputChannels < 1 {
		errs = append(errs, fmt.Errorf("bridge.output_channels must be positive"))
	}
	if c.Bridge.Hello == 0 {
		errs = append(errs, fmt.Errorf("bridge.hello must be non-zero"))
	}
	if c.Bridge.MaxFrames < 1 {
		errs = append(errs, fmt.Errorf("bridge.max_frames must be positive"))
	} else if channels := max(c.Bridge.InputChannels, c.Bridge.OutputChannels); channels >= 1 &&
		!protocol.BlockFits(c.Bridge.MaxFrames, channels) {
		errs = append(errs, fmt.Errorf("bridge.max_frames %d with %d channels exceeds the %d byte block limit",
			c.Bridge.MaxFrames, channels, protocol.MaxBlockBytes))
	}
	if c.Bridge.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("bridge.poll_interval must be positive"))
	}
	if c.Bridge.RetryInterval <= 0 {
		errs = append(errs, fmt.Errorf("bridge.retry_interval must be positive"))
	}

	if !slices.Contains(logLevels, c.Log.Level) {
		errs = append(errs, fmt.Errorf("log.level must be one of: %v", logLevels))
	}

	if c.Status.Enabled && c.Status.Socket == "" {
		errs = append(errs, fmt.Errorf("status.socket is required when status is enabled"))
	}

	if !slices.Contains(audioBackends, c.Host.Audio) {
		errs = append(errs, fmt.Errorf("host.audio must be one of: %v", audioBackends))
	}
	if !slices.Contains(midiBackends, c.Host.MIDI) {
		errs = append(errs, fmt.Errorf("host.midi must be one of: %v", midiBackends))
	}
	for _, port := range c.Host.Ports {
		if port < 0 || port >= c.Bridge.Ports {
			errs = append(errs, fmt.Errorf("host.ports: %d is out of range [0, %d)", port, c.Bridge.Ports))
		}
	}

	return errors.Join(errs...)
}

// LogLevel returns the slog level for Log.Level. Unknown values map to
// info; Validate rejects them.
func (c *Config) LogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// HostPorts returns the ports the host attaches to: Host.Ports, or
// every port when the list is empty.
func (c *Config) HostPorts() []int {
	if len(c.Host.Ports) > 0 {
		return slices.Clone(c.Host.Ports)
	}
	ports := make([]int, c.Bridge.Ports)
	for i := range ports {
		ports[i] = i
	}
	return ports
}
