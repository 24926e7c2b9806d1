// SPDX-FileCopyrightText: 2026 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

// Package i2c provides a tsc2007.Transport over a host I2C bus.
//
// The bus is accessed via periph.io, so any bus registered with the periph
// host drivers, such as the Linux i2c-dev buses, may be used.
package i2c

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/warthog618/tsc2007"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

// Bus is a two-wire bus shared by the devices connected to it.
type Bus struct {
	mu    sync.Mutex
	bus   i2c.Bus
	c     io.Closer
	addrs map[uint16]struct{}
}

// Option specifies a construction option for the Bus.
type Option func(*Bus) error

// WithSpeed sets the clock frequency of the bus.
//
// The TSC2007 supports up to 400kHz in fast mode, and up to 3.4MHz in high
// speed mode.
func WithSpeed(f physic.Frequency) Option {
	return func(b *Bus) error {
		return b.bus.SetSpeed(f)
	}
}

// Open opens the named host bus.
//
// The name is as understood by periph's i2creg, such as "1" or "/dev/i2c-1".
// An empty name opens the first available bus.
func Open(name string, options ...Option) (*Bus, error) {
	if _, err := host.Init(); err != nil {
		return nil, err
	}
	bc, err := i2creg.Open(name)
	if err != nil {
		return nil, err
	}
	b := newBus(bc)
	b.c = bc
	for _, option := range options {
		if err = option(b); err != nil {
			bc.Close()
			return nil, err
		}
	}
	return b, nil
}

// New creates a Bus from an existing periph bus.
//
// Closing the returned Bus does not close the periph bus.
func New(bus i2c.Bus) *Bus {
	return newBus(bus)
}

func newBus(bus i2c.Bus) *Bus {
	return &Bus{bus: bus, addrs: map[uint16]struct{}{}}
}

// Close releases the bus.
//
// Any open connections are no longer usable.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.bus == nil {
		return ErrClosed
	}
	b.bus = nil
	b.addrs = map[uint16]struct{}{}
	if b.c != nil {
		return b.c.Close()
	}
	return nil
}

func (b *Bus) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.bus == nil {
		return "closed"
	}
	return b.bus.String()
}

// Open returns a connection to the device at addr.
//
// Only one connection to each address may be open at a time.
func (b *Bus) Open(addr uint16) (tsc2007.Conn, error) {
	if addr > 0x7f {
		return nil, ErrorAddress(addr)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.bus == nil {
		return nil, ErrClosed
	}
	if _, ok := b.addrs[addr]; ok {
		return nil, ErrBusy
	}
	b.addrs[addr] = struct{}{}
	return &Conn{b: b, dev: i2c.Dev{Bus: b.bus, Addr: addr}}, nil
}

func (b *Bus) tx(d *i2c.Dev, w, r []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.bus == nil {
		return ErrClosed
	}
	return d.Tx(w, r)
}

func (b *Bus) release(addr uint16) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.addrs, addr)
}

// Conn is a connection to a single device on a Bus.
type Conn struct {
	mu     sync.Mutex
	b      *Bus
	dev    i2c.Dev
	closed bool
}

// Tx writes w and then reads len(r) bytes into r.
func (c *Conn) Tx(w, r []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	return c.b.tx(&c.dev, w, r)
}

// Probe performs a single byte read from the device.
//
// Any device that acks its address will pass.
func (c *Conn) Probe() error {
	var buf [1]byte
	if err := c.Tx(nil, buf[:]); err != nil {
		return fmt.Errorf("probe 0x%02x: %w", c.dev.Addr, err)
	}
	return nil
}

// Close releases the connection.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.closed = true
	c.b.release(c.dev.Addr)
	return nil
}

func (c *Conn) String() string {
	return c.dev.String()
}

var (
	// ErrClosed indicates the bus or connection has been closed.
	ErrClosed = errors.New("closed")

	// ErrBusy indicates a connection to the address is already open.
	ErrBusy = errors.New("address already in use")
)

// ErrorAddress indicates the address is not a valid 7-bit address.
type ErrorAddress uint16

func (e ErrorAddress) Error() string {
	return fmt.Sprintf("invalid address 0x%x", uint16(e))
}
