// SPDX-FileCopyrightText: 2026 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

package tsc2007_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warthog618/tsc2007"
	"github.com/warthog618/tsc2007/mockup"
)

var (
	powerdown = tsc2007.Encode(tsc2007.MeasureTemp0, tsc2007.PowerdownIRQOn, tsc2007.ADC12Bit)
	errBus    = errors.New("bus stalled")
)

func measure(f tsc2007.Function) tsc2007.ControlByte {
	return tsc2007.Encode(f, tsc2007.ADOnIRQOff, tsc2007.ADC12Bit)
}

func newDevice(t *testing.T, m *mockup.Mockup) *tsc2007.Device {
	t.Helper()
	d, err := tsc2007.New(m)
	require.Nil(t, err)
	require.NotNil(t, d)
	m.ClearCommands()
	return d
}

func TestNew(t *testing.T) {
	m := mockup.New()
	d, err := tsc2007.New(m)
	require.Nil(t, err)
	require.NotNil(t, d)
	assert.Equal(t, uint16(tsc2007.DefaultAddress), d.Address())
	assert.Equal(t, []tsc2007.ControlByte{powerdown}, m.Commands())
	assert.Equal(t, 1, m.Active())

	err = d.Close()
	assert.Nil(t, err)
	assert.Equal(t, 0, m.Active())
	err = d.Close()
	assert.Equal(t, tsc2007.ErrClosed, err)
}

func TestNewWithAddress(t *testing.T) {
	m := mockup.New(mockup.WithAddress(0x4a))
	d, err := tsc2007.New(m, tsc2007.WithAddress(0x4a))
	require.Nil(t, err)
	require.NotNil(t, d)
	assert.Equal(t, uint16(0x4a), d.Address())
	d.Close()

	// wrong address
	d, err = tsc2007.New(m)
	assert.True(t, errors.Is(err, tsc2007.ErrDeviceNotFound))
	assert.Equal(t, mockup.ErrorNack{Addr: tsc2007.DefaultAddress}, errors.Unwrap(err))
	assert.Nil(t, d)
	assert.Equal(t, 0, m.Active())
}

func TestInitProbeFail(t *testing.T) {
	m := mockup.New()
	m.FailProbe(errBus)
	d := tsc2007.Device{}
	err := d.Init(m)
	require.NotNil(t, err)
	assert.True(t, errors.Is(err, tsc2007.ErrDeviceNotFound))
	assert.True(t, errors.Is(err, errBus))
	var ie tsc2007.InitError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, uint16(tsc2007.DefaultAddress), ie.Addr)
	assert.Equal(t, 1, m.Opens())
	assert.Equal(t, 0, m.Active())
	assert.Empty(t, m.Commands())

	// no handle retained
	_, err = d.Command(tsc2007.MeasureX, tsc2007.ADOnIRQOff, tsc2007.ADC12Bit)
	assert.Equal(t, tsc2007.ErrClosed, err)

	// recovers once the device appears
	m.FailProbe(nil)
	err = d.Init(m)
	assert.Nil(t, err)
	assert.Equal(t, 1, m.Active())
	d.Close()
}

func TestInitOpenFail(t *testing.T) {
	m := mockup.New()
	m.FailOpen(errBus)
	d := tsc2007.Device{}
	err := d.Init(m)
	assert.Equal(t, errBus, err)
	assert.Equal(t, 0, m.Opens())
	assert.Equal(t, tsc2007.ErrClosed, d.Close())
}

func TestInitCommandFail(t *testing.T) {
	m := mockup.New()
	m.FailAfter(0, errBus)
	d := tsc2007.Device{}
	err := d.Init(m)
	assert.Equal(t, errBus, err)
	assert.Equal(t, 1, m.Opens())
	assert.Equal(t, 0, m.Active())
}

func TestReinit(t *testing.T) {
	m := mockup.New()
	d := tsc2007.Device{}
	err := d.Init(m)
	require.Nil(t, err)
	assert.Equal(t, 1, m.Opens())
	assert.Equal(t, 0, m.Closes())

	err = d.Init(m)
	require.Nil(t, err)
	assert.Equal(t, 2, m.Opens())
	assert.Equal(t, 1, m.Closes())
	assert.Equal(t, 1, m.Active())

	// failed reinit still releases the prior handle
	m.FailProbe(errBus)
	err = d.Init(m)
	assert.True(t, errors.Is(err, tsc2007.ErrDeviceNotFound))
	assert.Equal(t, 3, m.Opens())
	assert.Equal(t, 0, m.Active())
}

func TestCommand(t *testing.T) {
	m := mockup.New(mockup.WithReading(tsc2007.MeasureAux, 0x321))
	d := newDevice(t, m)
	defer d.Close()

	v, err := d.Command(tsc2007.MeasureAux, tsc2007.ADOnIRQOff, tsc2007.ADC8Bit)
	assert.Nil(t, err)
	assert.Equal(t, uint16(0x321), v)

	m.QueueReply([2]byte{0x12, 0x3f})
	v, err = d.Command(tsc2007.MeasureAux, tsc2007.ADOffIRQOn, tsc2007.ADC12Bit)
	assert.Nil(t, err)
	assert.Equal(t, uint16(0x123), v)

	assert.Equal(t, []tsc2007.ControlByte{0x26, 0x28}, m.Commands())

	m.FailAfter(0, errBus)
	_, err = d.Command(tsc2007.MeasureX, tsc2007.ADOnIRQOff, tsc2007.ADC12Bit)
	assert.Equal(t, errBus, err)
}

func TestCommandClosed(t *testing.T) {
	d := tsc2007.Device{}
	_, err := d.Command(tsc2007.MeasureX, tsc2007.ADOnIRQOff, tsc2007.ADC12Bit)
	assert.Equal(t, tsc2007.ErrClosed, err)

	m := mockup.New()
	d2 := newDevice(t, m)
	d2.Close()
	_, err = d2.Command(tsc2007.MeasureX, tsc2007.ADOnIRQOff, tsc2007.ADC12Bit)
	assert.Equal(t, tsc2007.ErrClosed, err)
	_, _, err = d2.ReadTouch()
	assert.Equal(t, tsc2007.ErrClosed, err)
	assert.Empty(t, m.Commands())
}

func TestReadTouch(t *testing.T) {
	patterns := []struct {
		name    string
		replies [][2]byte
		s       tsc2007.Sample
		valid   bool
	}{
		{"touch",
			[][2]byte{{0xab, 0xc0}, {0x3f, 0xf0}, {0x00, 0x10}, {0x12, 0x30}, {0, 0}},
			tsc2007.Sample{X: 2748, Y: 1023, Z1: 1, Z2: 291},
			true,
		},
		{"x saturated",
			[][2]byte{{0xff, 0xf0}, {0x3f, 0xf0}, {0x00, 0x10}, {0x12, 0x30}, {0, 0}},
			tsc2007.Sample{X: 4095, Y: 1023, Z1: 1, Z2: 291},
			false,
		},
		{"y saturated",
			[][2]byte{{0xab, 0xc0}, {0xff, 0xff}, {0x00, 0x10}, {0x12, 0x30}, {0, 0}},
			tsc2007.Sample{X: 2748, Y: 4095, Z1: 1, Z2: 291},
			false,
		},
		{"both saturated",
			[][2]byte{{0xff, 0xf0}, {0xff, 0xf0}, {0x00, 0x00}, {0x00, 0x00}, {0, 0}},
			tsc2007.Sample{X: 4095, Y: 4095},
			false,
		},
		{"z saturated",
			[][2]byte{{0x01, 0x00}, {0x02, 0x00}, {0xff, 0xf0}, {0xff, 0xf0}, {0, 0}},
			tsc2007.Sample{X: 16, Y: 32, Z1: 4095, Z2: 4095},
			true,
		},
	}
	for _, p := range patterns {
		tf := func(t *testing.T) {
			m := mockup.New()
			d := newDevice(t, m)
			defer d.Close()
			m.QueueReply(p.replies...)
			s, ok, err := d.ReadTouch()
			require.Nil(t, err)
			assert.Equal(t, p.s, s)
			assert.Equal(t, p.valid, ok)
			assert.Equal(t, p.valid, s.Valid())
		}
		t.Run(p.name, tf)
	}
}

func TestReadTouchSequence(t *testing.T) {
	m := mockup.New()
	m.SetTouch(tsc2007.Sample{X: 100, Y: 200, Z1: 300, Z2: 400})
	d := newDevice(t, m)
	defer d.Close()

	s, ok, err := d.ReadTouch()
	require.Nil(t, err)
	assert.True(t, ok)
	assert.Equal(t, tsc2007.Sample{X: 100, Y: 200, Z1: 300, Z2: 400}, s)
	xx := []tsc2007.ControlByte{
		measure(tsc2007.MeasureX),
		measure(tsc2007.MeasureY),
		measure(tsc2007.MeasureZ1),
		measure(tsc2007.MeasureZ2),
		powerdown,
	}
	cc := m.Commands()
	assert.Equal(t, xx, cc)
	for _, c := range cc {
		assert.Equal(t, tsc2007.ADC12Bit, c.Resolution())
	}

	// untouched panel still issues the full sequence
	m.Release()
	m.ClearCommands()
	s, ok, err = d.ReadTouch()
	require.Nil(t, err)
	assert.False(t, ok)
	assert.Equal(t, uint16(tsc2007.Saturated), s.X)
	assert.Equal(t, xx, m.Commands())
}

func TestReadTouchError(t *testing.T) {
	for n := 0; n < 5; n++ {
		m := mockup.New()
		m.SetTouch(tsc2007.Sample{X: 1, Y: 2, Z1: 3, Z2: 4})
		d := newDevice(t, m)
		m.FailAfter(n, errBus)
		s, ok, err := d.ReadTouch()
		assert.Equal(t, errBus, err)
		assert.False(t, ok)
		assert.Equal(t, tsc2007.Sample{}, s)
		// no retries or recovery
		assert.Len(t, m.Commands(), n)
		d.Close()
	}
}

func TestReadTemperature(t *testing.T) {
	m := mockup.New(
		mockup.WithReading(tsc2007.MeasureTemp0, 0x555),
		mockup.WithReading(tsc2007.MeasureTemp1, 0x666))
	d := newDevice(t, m)
	defer d.Close()

	tmp, err := d.ReadTemperature()
	require.Nil(t, err)
	assert.Equal(t, tsc2007.Temperature{Temp0: 0x555, Temp1: 0x666}, tmp)
	xx := []tsc2007.ControlByte{
		measure(tsc2007.MeasureTemp0),
		measure(tsc2007.MeasureTemp1),
		powerdown,
	}
	assert.Equal(t, xx, m.Commands())

	m.FailAfter(1, errBus)
	_, err = d.ReadTemperature()
	assert.Equal(t, errBus, err)
}

func TestReadAux(t *testing.T) {
	m := mockup.New(mockup.WithReading(tsc2007.MeasureAux, 0x7ff))
	d := newDevice(t, m)
	defer d.Close()

	v, err := d.ReadAux()
	require.Nil(t, err)
	assert.Equal(t, uint16(0x7ff), v)
	xx := []tsc2007.ControlByte{
		measure(tsc2007.MeasureAux),
		powerdown,
	}
	assert.Equal(t, xx, m.Commands())

	m.FailAfter(1, errBus)
	_, err = d.ReadAux()
	assert.Equal(t, errBus, err)
}

func TestSampleValid(t *testing.T) {
	assert.True(t, tsc2007.Sample{}.Valid())
	assert.True(t, tsc2007.Sample{X: 4094, Y: 4094, Z1: 4095, Z2: 4095}.Valid())
	assert.False(t, tsc2007.Sample{X: 4095}.Valid())
	assert.False(t, tsc2007.Sample{Y: 4095}.Valid())
}

func TestInitErrorString(t *testing.T) {
	err := tsc2007.InitError{Addr: 0x49, Err: errBus}
	assert.Equal(t, "no device at address 0x49: bus stalled", err.Error())
}
