// SPDX-FileCopyrightText: 2026 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

//go:build linux
// +build linux

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/warthog618/tsc2007"
)

func init() {
	commandCmd.SetHelpTemplate(commandCmd.HelpTemplate() + extendedCommandHelp)
	rootCmd.AddCommand(commandCmd)
}

var extendedCommandHelp = `
Functions:
  temp0, temp1:  measure the temperature diodes
  aux:           measure the AUX input
  x, y:          measure the X or Y position
  z1, z2:        measure the Z1 or Z2 pressure component
  activate-x, activate-y, activate-yx:
                 turn on the panel drivers
  setup:         select the setup register

Power modes:
  powerdown:     power down between cycles, PENIRQ enabled (default)
  adon:          ADC on, PENIRQ disabled
  adoff:         ADC off, PENIRQ enabled
  adon-alt:      ADC on, PENIRQ disabled

Resolutions:
  12bit:         12-bit conversion (default)
  8bit:          8-bit conversion

Note:
  The device remains in the selected power mode after the command.
`

var commandCmd = &cobra.Command{
	Use:                   "command <function> [power] [resolution]",
	Short:                 "Send a raw command to the device",
	Long:                  `Send a single command to the device and display the resulting conversion.`,
	Args:                  cobra.RangeArgs(1, 3),
	RunE:                  command,
	DisableFlagsInUseLine: true,
}

func command(cmd *cobra.Command, args []string) error {
	f, err := tsc2007.ParseFunction(args[0])
	if err != nil {
		return err
	}
	p := tsc2007.PowerdownIRQOn
	if len(args) > 1 {
		if p, err = tsc2007.ParsePower(args[1]); err != nil {
			return err
		}
	}
	r := tsc2007.ADC12Bit
	if len(args) > 2 {
		if r, err = tsc2007.ParseResolution(args[2]); err != nil {
			return err
		}
	}
	d, b, err := openDevice()
	if err != nil {
		return err
	}
	defer b.Close()
	defer d.Close()
	v, err := d.Command(f, p, r)
	if err != nil {
		return err
	}
	fmt.Printf("%s=%d (0x%03x)\n", tsc2007.Encode(f, p, r), v, v)
	return nil
}
