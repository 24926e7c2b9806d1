// SPDX-FileCopyrightText: 2026 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

package tsc2007

// Option defines the interface required to provide an option to Init.
type Option interface {
	applyOption(*config)
}

type config struct {
	addr uint16
}

// AddressOption defines the bus address of the device.
type AddressOption uint16

// WithAddress sets the bus address of the device.
//
// The TSC2007 address is 0x48 to 0x4b, depending on the A1 and A0 pins.
// The default is DefaultAddress.
func WithAddress(addr uint16) AddressOption {
	return AddressOption(addr)
}

func (o AddressOption) applyOption(c *config) {
	c.addr = uint16(o)
}
