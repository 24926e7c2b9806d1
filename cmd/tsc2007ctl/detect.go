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
	rootCmd.AddCommand(detectCmd)
}

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Detect TSC2007 devices on the bus",
	Long: `Probe each of the addresses a TSC2007 may be strapped to, 0x48 to 0x4b,
and list those that respond.  The --address flag is ignored.`,
	Args:                  cobra.NoArgs,
	RunE:                  detect,
	DisableFlagsInUseLine: true,
}

func detect(cmd *cobra.Command, args []string) error {
	b, err := openBus()
	if err != nil {
		return err
	}
	defer b.Close()
	found := 0
	for addr := uint16(tsc2007.DefaultAddress); addr <= tsc2007.DefaultAddress+3; addr++ {
		c, err := b.Open(addr)
		if err != nil {
			logErr(cmd, err)
			continue
		}
		if c.Probe() == nil {
			fmt.Printf("%s 0x%02x\n", b, addr)
			found++
		}
		c.Close()
	}
	if found == 0 {
		return fmt.Errorf("no devices found on %s", b)
	}
	return nil
}
