// SPDX-FileCopyrightText: 2026 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

//go:build linux
// +build linux

// A utility to read a TSC2007 touch screen controller.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/warthog618/tsc2007"
	"github.com/warthog618/tsc2007/i2c"
	"periph.io/x/conn/v3/physic"
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&busOpts.Bus, "bus", "b", "", "the I2C bus the device is on (default first available)")
	pf.Uint16VarP(&busOpts.Address, "address", "a", tsc2007.DefaultAddress, "the I2C address of the device")
	pf.StringVarP(&busOpts.Speed, "speed", "s", "", "set the I2C bus clock, e.g. 400kHz")
}

var rootCmd = &cobra.Command{
	Use:   "tsc2007ctl",
	Short: "tsc2007ctl is a utility to read TSC2007 touch screen controllers",
	Long:  "tsc2007ctl is a utility to read TSC2007 resistive touch screen controllers on Linux I2C buses",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var busOpts = struct {
	Bus     string
	Address uint16
	Speed   string
}{}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func logErr(cmd *cobra.Command, err error) {
	fmt.Fprintf(os.Stderr, "tsc2007ctl %s: %s\n", cmd.Name(), err)
}

func openBus() (*i2c.Bus, error) {
	opts := []i2c.Option{}
	if busOpts.Speed != "" {
		var f physic.Frequency
		if err := f.Set(busOpts.Speed); err != nil {
			return nil, fmt.Errorf("can't parse speed '%s': %s", busOpts.Speed, err)
		}
		opts = append(opts, i2c.WithSpeed(f))
	}
	return i2c.Open(busOpts.Bus, opts...)
}

// openDevice opens the bus and initialises the device on it.
//
// The returned Bus must be closed after the Device.
func openDevice() (*tsc2007.Device, *i2c.Bus, error) {
	b, err := openBus()
	if err != nil {
		return nil, nil, err
	}
	d, err := tsc2007.New(b, tsc2007.WithAddress(busOpts.Address))
	if err != nil {
		b.Close()
		return nil, nil, err
	}
	return d, b, nil
}
