// SPDX-FileCopyrightText: 2026 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warthog618/tsc2007/internal/config"
	"periph.io/x/conn/v3/physic"
)

const sample = `
log_level = "debug"

[device]
bus = "1"
address = 0x49
speed = "400kHz"

[penirq]
enabled = true
chip = "gpiochip4"
pin = "J8p11"
pull_up = false

[sample]
poll_interval = "10ms"
report_release = false

[output]
sinks = ["json", "redis://localhost:6379/touch"]
`

func TestLoadDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "tsc2007d.toml")
	cfg, err := config.Load(path)
	require.Nil(t, err)
	assert.Equal(t, config.Default(), cfg)

	// defaults written for next time
	_, err = os.Stat(path)
	require.Nil(t, err)
	cfg, err = config.Load(path)
	require.Nil(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tsc2007d.toml")
	require.Nil(t, os.WriteFile(path, []byte(sample), 0644))
	cfg, err := config.Load(path)
	require.Nil(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "1", cfg.Device.Bus)
	assert.Equal(t, uint16(0x49), cfg.Device.Address)
	f, err := cfg.Device.Frequency()
	assert.Nil(t, err)
	assert.Equal(t, 400*physic.KiloHertz, f)
	assert.True(t, cfg.PenIRQ.Enabled)
	assert.Equal(t, "gpiochip4", cfg.PenIRQ.Chip)
	assert.False(t, cfg.PenIRQ.PullUp)
	o, err := cfg.PenIRQ.Offset()
	assert.Nil(t, err)
	assert.Equal(t, 17, o)
	d, err := cfg.Sample.Interval()
	assert.Nil(t, err)
	assert.Equal(t, 10*time.Millisecond, d)
	assert.False(t, cfg.Sample.ReportRelease)
	assert.Equal(t, []string{"json", "redis://localhost:6379/touch"}, cfg.Output.Sinks)
}

func TestLoadBadSyntax(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tsc2007d.toml")
	require.Nil(t, os.WriteFile(path, []byte("[device\n"), 0644))
	_, err := config.Load(path)
	assert.NotNil(t, err)
}

func TestValidate(t *testing.T) {
	patterns := []struct {
		name string
		mod  func(c *config.Config)
		ok   bool
	}{
		{"default", func(c *config.Config) {}, true},
		{"address", func(c *config.Config) { c.Device.Address = 0x80 }, false},
		{"speed", func(c *config.Config) { c.Device.Speed = "fast" }, false},
		{"interval", func(c *config.Config) { c.Sample.PollInterval = "soon" }, false},
		{"zero interval", func(c *config.Config) { c.Sample.PollInterval = "0s" }, false},
		{"pin", func(c *config.Config) { c.PenIRQ.Enabled = true; c.PenIRQ.Pin = "J8p1" }, false},
		{"pin disabled", func(c *config.Config) { c.PenIRQ.Pin = "J8p1" }, true},
		{"pin offset", func(c *config.Config) { c.PenIRQ.Enabled = true; c.PenIRQ.Pin = "23" }, true},
		{"no sinks", func(c *config.Config) { c.Output.Sinks = nil }, false},
	}
	for _, p := range patterns {
		tf := func(t *testing.T) {
			c := config.Default()
			p.mod(c)
			err := c.Validate()
			assert.Equal(t, p.ok, err == nil, err)
		}
		t.Run(p.name, tf)
	}
}

func TestWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tsc2007d.toml")
	_, err := config.Load(path)
	require.Nil(t, err)
	w, err := config.Watch(path)
	require.Nil(t, err)
	defer w.Close()

	require.Nil(t, os.WriteFile(path, []byte(sample), 0644))
	var cfg *config.Config
	timeout := time.After(2 * time.Second)
	for cfg == nil || cfg.Device.Address != 0x49 {
		select {
		case cfg = <-w.Changes():
		case <-w.Errors():
			// partial write - wait for the next event
		case <-timeout:
			require.Fail(t, "timeout waiting for config change")
		}
	}
	assert.Equal(t, "gpiochip4", cfg.PenIRQ.Chip)

	// other files in the directory are ignored
	other := filepath.Join(filepath.Dir(path), "other.toml")
	require.Nil(t, os.WriteFile(other, []byte("junk"), 0644))
	select {
	case cfg = <-w.Changes():
		assert.Equal(t, uint16(0x49), cfg.Device.Address)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestOffset(t *testing.T) {
	patterns := []struct {
		name   string
		pin    string
		offset int
		ok     bool
	}{
		{"offset", "23", 23, true},
		{"gpio", "GPIO17", 17, true},
		{"gpio lower", "gpio4", 4, true},
		{"j8", "J8p11", 17, true},
		{"j8 power", "J8p1", 0, false},
		{"junk", "penirq", 0, false},
		{"empty", "", 0, false},
	}
	for _, p := range patterns {
		tf := func(t *testing.T) {
			o, err := config.PenIRQConfig{Pin: p.pin}.Offset()
			assert.Equal(t, p.ok, err == nil, err)
			if p.ok {
				assert.Equal(t, p.offset, o)
			}
		}
		t.Run(p.name, tf)
	}
}
