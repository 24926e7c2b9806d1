// SPDX-FileCopyrightText: 2026 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

// Package config provides the configuration file for the tsc2007 daemon.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/warthog618/go-gpiocdev/device/rpi"
	"github.com/warthog618/tsc2007"
	"periph.io/x/conn/v3/physic"
)

// Config is the daemon configuration.
type Config struct {
	LogLevel string       `toml:"log_level"`
	Device   DeviceConfig `toml:"device"`
	PenIRQ   PenIRQConfig `toml:"penirq"`
	Sample   SampleConfig `toml:"sample"`
	Output   OutputConfig `toml:"output"`
}

// DeviceConfig locates the TSC2007.
type DeviceConfig struct {
	// Bus is the I2C bus name, as understood by periph, e.g. "1".
	// Empty selects the first available bus.
	Bus     string `toml:"bus"`
	Address uint16 `toml:"address"`
	// Speed is the bus clock, e.g. "400kHz". Empty leaves the bus as is.
	Speed string `toml:"speed"`
}

// PenIRQConfig locates the GPIO line connected to PENIRQ.
type PenIRQConfig struct {
	Enabled bool   `toml:"enabled"`
	Chip    string `toml:"chip"`
	// Pin is a line offset, or a Raspberry Pi pin name such as "GPIO17" or
	// "J8p11".
	Pin    string `toml:"pin"`
	PullUp bool   `toml:"pull_up"`
}

// SampleConfig controls when the touch panel is sampled.
type SampleConfig struct {
	// PollInterval is the period between samples while the panel is
	// touched, and between samples when PENIRQ is not available.
	PollInterval string `toml:"poll_interval"`
	// ReportRelease reports the first invalid sample after a touch.
	ReportRelease bool `toml:"report_release"`
}

// OutputConfig lists the sinks samples are published to.
type OutputConfig struct {
	Sinks []string `toml:"sinks"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Device: DeviceConfig{
			Bus:     "",
			Address: tsc2007.DefaultAddress,
			Speed:   "",
		},
		PenIRQ: PenIRQConfig{
			Enabled: false,
			Chip:    "gpiochip0",
			Pin:     "GPIO17",
			PullUp:  true,
		},
		Sample: SampleConfig{
			PollInterval:  "20ms",
			ReportRelease: true,
		},
		Output: OutputConfig{
			Sinks: []string{"text"},
		},
	}
}

// Load reads the configuration from path.
//
// If the file does not exist it is created containing the default
// configuration.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := Save(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Save writes the configuration to path, creating the directory if necessary.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

// Validate checks the configuration values can be parsed.
func (c *Config) Validate() error {
	if c.Device.Address > 0x7f {
		return fmt.Errorf("device.address: invalid address 0x%x", c.Device.Address)
	}
	if _, err := c.Device.Frequency(); err != nil {
		return fmt.Errorf("device.speed: %w", err)
	}
	if _, err := c.Sample.Interval(); err != nil {
		return fmt.Errorf("sample.poll_interval: %w", err)
	}
	if c.PenIRQ.Enabled {
		if _, err := c.PenIRQ.Offset(); err != nil {
			return fmt.Errorf("penirq.pin: %w", err)
		}
	}
	if len(c.Output.Sinks) == 0 {
		return errors.New("output.sinks: no sinks")
	}
	return nil
}

// Frequency returns the bus clock, or 0 if the bus clock is not to be set.
func (d DeviceConfig) Frequency() (physic.Frequency, error) {
	var f physic.Frequency
	if d.Speed == "" {
		return 0, nil
	}
	err := f.Set(d.Speed)
	return f, err
}

// Interval returns the poll interval.
func (s SampleConfig) Interval() (time.Duration, error) {
	d, err := time.ParseDuration(s.PollInterval)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("interval must be positive, got %s", d)
	}
	return d, nil
}

// Offset returns the offset of the PENIRQ line on the chip.
func (p PenIRQConfig) Offset() (int, error) {
	if o, err := strconv.ParseUint(p.Pin, 10, 64); err == nil {
		return int(o), nil
	}
	return rpi.Pin(p.Pin)
}
