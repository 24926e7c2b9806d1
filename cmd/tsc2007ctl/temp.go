// SPDX-FileCopyrightText: 2026 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

//go:build linux
// +build linux

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	tempCmd.Flags().BoolVarP(&tempOpts.Aux, "aux", "x", false, "also read the AUX input")
	rootCmd.AddCommand(tempCmd)
}

var (
	tempCmd = &cobra.Command{
		Use:                   "temp [flags]",
		Short:                 "Read the temperature diodes",
		Long:                  `Read the raw TEMP0 and TEMP1 conversions, and optionally the AUX input.`,
		Args:                  cobra.NoArgs,
		RunE:                  temp,
		DisableFlagsInUseLine: true,
	}
	tempOpts = struct {
		Aux bool
	}{}
)

func temp(cmd *cobra.Command, args []string) error {
	d, b, err := openDevice()
	if err != nil {
		return err
	}
	defer b.Close()
	defer d.Close()
	t, err := d.ReadTemperature()
	if err != nil {
		return err
	}
	fmt.Printf("temp0=%d temp1=%d\n", t.Temp0, t.Temp1)
	if tempOpts.Aux {
		v, err := d.ReadAux()
		if err != nil {
			return err
		}
		fmt.Printf("aux=%d\n", v)
	}
	return nil
}
