// SPDX-FileCopyrightText: 2026 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

// Package mockup provides a simulated TSC2007 on a simulated two-wire bus.
//
// This is intended for testing the tsc2007 driver, but could also be used for
// testing by users of their own code that uses the driver.
package mockup

import (
	"errors"
	"fmt"
	"sync"

	"github.com/warthog618/tsc2007"
)

// Mockup is a Transport with a single simulated TSC2007 attached.
//
// Conversions return the reading set for the commanded function, unless
// replies have been queued, in which case the queued replies are returned
// first, one per command.
type Mockup struct {
	mu       sync.Mutex
	addr     uint16
	readings map[tsc2007.Function]uint16
	replies  [][2]byte
	commands []tsc2007.ControlByte
	opens    int
	closes   int
	openErr  error
	probeErr error
	txErr    error
	// number of commands to accept before failing with txErr
	txLimit int
}

// Option specifies a construction option for the Mockup.
type Option func(*Mockup)

// WithAddress sets the address the simulated device responds to.
//
// The default is tsc2007.DefaultAddress.
func WithAddress(addr uint16) Option {
	return func(m *Mockup) {
		m.addr = addr
	}
}

// WithReading sets the conversion returned for a function.
func WithReading(f tsc2007.Function, v uint16) Option {
	return func(m *Mockup) {
		m.readings[f] = v
	}
}

// New creates a Mockup.
//
// By default the simulated panel is not touched, so X and Y return
// tsc2007.Saturated and all other functions return 0.
func New(options ...Option) *Mockup {
	m := Mockup{
		addr: tsc2007.DefaultAddress,
		readings: map[tsc2007.Function]uint16{
			tsc2007.MeasureX: tsc2007.Saturated,
			tsc2007.MeasureY: tsc2007.Saturated,
		},
		txLimit: -1,
	}
	for _, option := range options {
		option(&m)
	}
	return &m
}

// Reply returns the reply the device returns for a conversion.
//
// Only the low 12 bits of v are encoded.
func Reply(v uint16) [2]byte {
	return [2]byte{byte(v >> 4), byte(v << 4)}
}

// SetReading sets the conversion returned for a function.
func (m *Mockup) SetReading(f tsc2007.Function, v uint16) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readings[f] = v
}

// SetTouch sets the readings for a touch at the given position and pressure.
func (m *Mockup) SetTouch(s tsc2007.Sample) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readings[tsc2007.MeasureX] = s.X
	m.readings[tsc2007.MeasureY] = s.Y
	m.readings[tsc2007.MeasureZ1] = s.Z1
	m.readings[tsc2007.MeasureZ2] = s.Z2
}

// Release sets the readings for an untouched panel.
func (m *Mockup) Release() {
	m.SetTouch(tsc2007.Sample{X: tsc2007.Saturated, Y: tsc2007.Saturated})
}

// QueueReply queues raw replies to be returned by subsequent commands.
func (m *Mockup) QueueReply(rr ...[2]byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies = append(m.replies, rr...)
}

// FailOpen causes subsequent Opens to fail with err.
//
// A nil err restores normal operation.
func (m *Mockup) FailOpen(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.openErr = err
}

// FailProbe causes subsequent probes to fail with err.
//
// A nil err restores normal operation.
func (m *Mockup) FailProbe(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.probeErr = err
}

// FailAfter causes commands to fail with err after a further n commands have
// succeeded.
//
// A nil err restores normal operation.
func (m *Mockup) FailAfter(n int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txErr = err
	m.txLimit = n
	if err == nil {
		m.txLimit = -1
	}
}

// Commands returns the control bytes received by the device, in order.
func (m *Mockup) Commands() []tsc2007.ControlByte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]tsc2007.ControlByte(nil), m.commands...)
}

// ClearCommands discards the record of received commands.
func (m *Mockup) ClearCommands() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commands = nil
}

// Opens returns the number of connections successfully opened.
func (m *Mockup) Opens() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opens
}

// Closes returns the number of connections closed.
func (m *Mockup) Closes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closes
}

// Active returns the number of connections currently open.
func (m *Mockup) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opens - m.closes
}

// Open returns a connection to the device at addr.
//
// Connections may be opened to any address, but only the simulated device
// address will respond to probes and commands.
func (m *Mockup) Open(addr uint16) (tsc2007.Conn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.openErr != nil {
		return nil, m.openErr
	}
	m.opens++
	return &conn{m: m, addr: addr}, nil
}

type conn struct {
	m      *Mockup
	addr   uint16
	closed bool
}

func (c *conn) Probe() error {
	m := c.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if m.probeErr != nil {
		return m.probeErr
	}
	if c.addr != m.addr {
		return ErrorNack{c.addr}
	}
	return nil
}

func (c *conn) Tx(w, r []byte) error {
	m := c.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if c.addr != m.addr {
		return ErrorNack{c.addr}
	}
	if len(w) != 1 || len(r) != 2 {
		return ErrorTxSize{W: len(w), R: len(r)}
	}
	if m.txLimit == 0 {
		return m.txErr
	}
	if m.txLimit > 0 {
		m.txLimit--
	}
	cb := tsc2007.ControlByte(w[0])
	m.commands = append(m.commands, cb)
	var reply [2]byte
	if len(m.replies) > 0 {
		reply = m.replies[0]
		m.replies = m.replies[1:]
	} else {
		reply = Reply(m.readings[cb.Function()])
	}
	copy(r, reply[:])
	return nil
}

func (c *conn) Close() error {
	m := c.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.closed = true
	m.closes++
	return nil
}

// ErrClosed indicates the connection has been closed.
var ErrClosed = errors.New("connection closed")

// ErrorNack indicates no device acknowledged the address.
type ErrorNack struct {
	Addr uint16
}

func (e ErrorNack) Error() string {
	return fmt.Sprintf("no ack from address 0x%02x", e.Addr)
}

// ErrorTxSize indicates a transaction was not the one byte write and two byte
// read the device supports.
type ErrorTxSize struct {
	W int
	R int
}

func (e ErrorTxSize) Error() string {
	return fmt.Sprintf("unsupported transaction - wrote %d, read %d.", e.W, e.R)
}
