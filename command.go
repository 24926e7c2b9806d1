// SPDX-FileCopyrightText: 2026 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

package tsc2007

import (
	"fmt"
	"strings"
)

// Function selects what the ADC converts, or which drivers are switched on,
// for a conversion cycle.
//
// It occupies bits C3..C0 of the control byte.
type Function uint8

const (
	// MeasureTemp0 measures the TEMP0 temperature diode.
	MeasureTemp0 Function = 0x0
	// MeasureAux measures the AUX input.
	MeasureAux Function = 0x2
	// MeasureTemp1 measures the TEMP1 temperature diode.
	MeasureTemp1 Function = 0x4
	// ActivateX turns on the X drivers without converting.
	ActivateX Function = 0x8
	// ActivateY turns on the Y drivers without converting.
	ActivateY Function = 0x9
	// ActivateYPlusX turns on the Y+ and X- drivers without converting.
	ActivateYPlusX Function = 0xa
	// SetupCommand selects the setup register.
	SetupCommand Function = 0xb
	// MeasureX measures the X position.
	MeasureX Function = 0xc
	// MeasureY measures the Y position.
	MeasureY Function = 0xd
	// MeasureZ1 measures the Z1 pressure component.
	MeasureZ1 Function = 0xe
	// MeasureZ2 measures the Z2 pressure component.
	MeasureZ2 Function = 0xf
)

var functionNames = map[Function]string{
	MeasureTemp0:   "temp0",
	MeasureAux:     "aux",
	MeasureTemp1:   "temp1",
	ActivateX:      "activate-x",
	ActivateY:      "activate-y",
	ActivateYPlusX: "activate-yx",
	SetupCommand:   "setup",
	MeasureX:       "x",
	MeasureY:       "y",
	MeasureZ1:      "z1",
	MeasureZ2:      "z2",
}

func (f Function) String() string {
	if n, ok := functionNames[f]; ok {
		return n
	}
	return fmt.Sprintf("function(0x%x)", uint8(f))
}

// Power selects the power down mode the device enters after the conversion.
//
// It occupies bits PD1..PD0 of the control byte.
type Power uint8

const (
	// PowerdownIRQOn powers down between cycles with PENIRQ enabled.
	PowerdownIRQOn Power = 0
	// ADOnIRQOff keeps the ADC on with PENIRQ disabled.
	ADOnIRQOff Power = 1
	// ADOffIRQOn turns the ADC off with PENIRQ enabled.
	ADOffIRQOn Power = 2
	// ADOnIRQOffAlt is the fourth PD code, which behaves as ADOnIRQOff.
	ADOnIRQOffAlt Power = 3
)

var powerNames = map[Power]string{
	PowerdownIRQOn: "powerdown",
	ADOnIRQOff:     "adon",
	ADOffIRQOn:     "adoff",
	ADOnIRQOffAlt:  "adon-alt",
}

func (p Power) String() string {
	if n, ok := powerNames[p]; ok {
		return n
	}
	return fmt.Sprintf("power(%d)", uint8(p))
}

// Resolution selects the ADC conversion width.
//
// It occupies bit M of the control byte.
type Resolution uint8

const (
	// ADC12Bit selects 12-bit conversions.
	ADC12Bit Resolution = 0
	// ADC8Bit selects 8-bit conversions.
	ADC8Bit Resolution = 1
)

func (r Resolution) String() string {
	switch r {
	case ADC12Bit:
		return "12bit"
	case ADC8Bit:
		return "8bit"
	}
	return fmt.Sprintf("resolution(%d)", uint8(r))
}

// ControlByte is the single byte written to the device to start a command.
type ControlByte uint8

// Encode packs the command fields into a control byte.
//
// Each field is masked to its width so bit 0 of the result is always zero.
func Encode(f Function, p Power, r Resolution) ControlByte {
	return ControlByte((uint8(f)&0x0f)<<4 | (uint8(p)&0x03)<<2 | (uint8(r)&0x01)<<1)
}

// Function returns the function encoded in the control byte.
func (c ControlByte) Function() Function {
	return Function(c >> 4)
}

// Power returns the power mode encoded in the control byte.
func (c ControlByte) Power() Power {
	return Power(c>>2) & 0x03
}

// Resolution returns the resolution encoded in the control byte.
func (c ControlByte) Resolution() Resolution {
	return Resolution(c>>1) & 0x01
}

func (c ControlByte) String() string {
	return fmt.Sprintf("0x%02x(%s,%s,%s)", uint8(c), c.Function(), c.Power(), c.Resolution())
}

// Saturated is the maximum conversion value, which the device returns on the
// X and Y channels when the panel is not being touched.
const Saturated = 0x0fff

// Decode extracts the 12-bit conversion from a 2-byte reply.
//
// The conversion is left justified, so the top 8 bits are in reply[0] and the
// remaining 4 bits in the top nibble of reply[1].
func Decode(reply [2]byte) uint16 {
	return uint16(reply[0])<<4 | uint16(reply[1]>>4)
}

// ParseFunction returns the Function with the given name, as returned by
// Function.String.
func ParseFunction(s string) (Function, error) {
	s = strings.ToLower(s)
	for f, n := range functionNames {
		if n == s {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown function '%s'", s)
}

// ParsePower returns the Power with the given name, as returned by
// Power.String.
func ParsePower(s string) (Power, error) {
	s = strings.ToLower(s)
	for p, n := range powerNames {
		if n == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown power mode '%s'", s)
}

// ParseResolution returns the Resolution with the given name.
//
// Both "12bit" and "12" are accepted, and similarly for 8 bit.
func ParseResolution(s string) (Resolution, error) {
	switch strings.ToLower(s) {
	case "12bit", "12":
		return ADC12Bit, nil
	case "8bit", "8":
		return ADC8Bit, nil
	}
	return 0, fmt.Errorf("unknown resolution '%s'", s)
}
