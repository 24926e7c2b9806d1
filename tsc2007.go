// SPDX-FileCopyrightText: 2026 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

// Package tsc2007 provides a driver for the Texas Instruments TSC2007
// resistive touch screen controller.
//
// The device is accessed over a two-wire (I2C) bus. Each command is a single
// control byte, which selects the conversion, the power mode to enter after the
// conversion, and the resolution. The device replies with the conversion
// result in two bytes.
//
// The driver returns raw 12-bit conversions. Calibration, filtering and
// debouncing are left to the caller.
package tsc2007

import (
	"errors"
	"fmt"
	"sync"
)

// DefaultAddress is the I2C address of the device with A1 and A0 tied low.
const DefaultAddress = 0x48

// Conn is a connection to a single device on a two-wire bus.
type Conn interface {
	// Tx writes w and then reads len(r) bytes into r, in a single transaction.
	Tx(w, r []byte) error

	// Probe checks that a device is present at the connection address.
	Probe() error

	// Close releases the connection.
	Close() error
}

// Transport provides connections to devices on a two-wire bus.
type Transport interface {
	// Open returns a connection to the device at addr.
	Open(addr uint16) (Conn, error)
}

// Device is a TSC2007 connected via a Transport.
type Device struct {
	mu   sync.Mutex
	conn Conn
	addr uint16
	buf  [3]byte
}

// Sample contains the raw conversions from a touch read.
type Sample struct {
	X  uint16
	Y  uint16
	Z1 uint16
	Z2 uint16
}

// Valid returns true if the X and Y conversions indicate a touch.
//
// Z1 and Z2 are not considered.
func (s Sample) Valid() bool {
	return s.X != Saturated && s.Y != Saturated
}

// Temperature contains the raw conversions of the two temperature diodes.
type Temperature struct {
	Temp0 uint16
	Temp1 uint16
}

var (
	// ErrClosed indicates the device has no active connection.
	ErrClosed = errors.New("closed")

	// ErrDeviceNotFound indicates the device did not respond to a probe.
	ErrDeviceNotFound = errors.New("device not found")
)

// InitError is returned by Init when the device cannot be found.
type InitError struct {
	Addr uint16
	Err  error
}

func (e InitError) Error() string {
	return fmt.Sprintf("no device at address 0x%02x: %s", e.Addr, e.Err)
}

// Unwrap returns the probe error.
func (e InitError) Unwrap() error {
	return e.Err
}

// Is matches ErrDeviceNotFound.
func (e InitError) Is(target error) bool {
	return target == ErrDeviceNotFound
}

// New creates a Device and initialises it.
func New(t Transport, options ...Option) (*Device, error) {
	d := Device{}
	if err := d.Init(t, options...); err != nil {
		return nil, err
	}
	return &d, nil
}

// Init connects to the device and places it in its idle state.
//
// Any connection held from a previous Init is released first.
// On success the device is powered down with PENIRQ enabled, ready to
// signal the next touch.
func (d *Device) Init(t Transport, options ...Option) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.release()
	cfg := config{addr: DefaultAddress}
	for _, option := range options {
		option.applyOption(&cfg)
	}
	c, err := t.Open(cfg.addr)
	if err != nil {
		return err
	}
	if err = c.Probe(); err != nil {
		c.Close()
		return InitError{Addr: cfg.addr, Err: err}
	}
	d.conn = c
	d.addr = cfg.addr
	if _, err = d.command(MeasureTemp0, PowerdownIRQOn, ADC12Bit); err != nil {
		d.release()
		return err
	}
	return nil
}

// Address returns the bus address of the device.
//
// The address is only meaningful after a successful Init.
func (d *Device) Address() uint16 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.addr
}

// Close releases the connection to the device.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.conn == nil {
		return ErrClosed
	}
	return d.release()
}

func (d *Device) release() error {
	if d.conn == nil {
		return nil
	}
	err := d.conn.Close()
	d.conn = nil
	return err
}

// Command sends a single command and returns the resulting conversion.
//
// The power mode persists in the device after the command, so Command is also
// how the device is powered up and down.
func (d *Device) Command(f Function, p Power, r Resolution) (uint16, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.command(f, p, r)
}

func (d *Device) command(f Function, p Power, r Resolution) (uint16, error) {
	if d.conn == nil {
		return 0, ErrClosed
	}
	w, rd := d.buf[:1], d.buf[1:]
	w[0] = byte(Encode(f, p, r))
	if err := d.conn.Tx(w, rd); err != nil {
		return 0, err
	}
	return Decode([2]byte{rd[0], rd[1]}), nil
}

// ReadTouch reads the position and pressure of a touch, and then powers down
// the device so it can signal the next touch.
//
// The returned bool indicates whether the X and Y conversions are valid.
// Z1 and Z2 are returned as read regardless.
func (d *Device) ReadTouch() (Sample, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var s Sample
	var err error
	// the mux state at each step depends on the preceding command,
	// so the order is fixed.
	steps := []struct {
		f Function
		v *uint16
	}{
		{MeasureX, &s.X},
		{MeasureY, &s.Y},
		{MeasureZ1, &s.Z1},
		{MeasureZ2, &s.Z2},
	}
	for _, step := range steps {
		*step.v, err = d.command(step.f, ADOnIRQOff, ADC12Bit)
		if err != nil {
			return Sample{}, false, err
		}
	}
	if err = d.powerdown(); err != nil {
		return Sample{}, false, err
	}
	return s, s.Valid(), nil
}

// ReadTemperature reads the two temperature diodes, and then powers down the
// device.
func (d *Device) ReadTemperature() (Temperature, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var t Temperature
	var err error
	if t.Temp0, err = d.command(MeasureTemp0, ADOnIRQOff, ADC12Bit); err != nil {
		return Temperature{}, err
	}
	if t.Temp1, err = d.command(MeasureTemp1, ADOnIRQOff, ADC12Bit); err != nil {
		return Temperature{}, err
	}
	if err = d.powerdown(); err != nil {
		return Temperature{}, err
	}
	return t, nil
}

// ReadAux reads the AUX input, and then powers down the device.
func (d *Device) ReadAux() (uint16, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, err := d.command(MeasureAux, ADOnIRQOff, ADC12Bit)
	if err != nil {
		return 0, err
	}
	if err = d.powerdown(); err != nil {
		return 0, err
	}
	return v, nil
}

func (d *Device) powerdown() error {
	_, err := d.command(MeasureTemp0, PowerdownIRQOn, ADC12Bit)
	return err
}
