// SPDX-FileCopyrightText: 2026 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

//go:build linux
// +build linux

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/warthog618/tsc2007/sink"
)

func init() {
	readCmd.Flags().UintVarP(&readOpts.Count, "count", "n", 1, "the number of samples to read, 0 for unlimited")
	readCmd.Flags().StringVarP(&readOpts.Interval, "interval", "i", "100ms", "the period between samples")
	readCmd.Flags().StringVarP(&readOpts.Format, "format", "f", "text", "the output format")
	readCmd.Flags().BoolVarP(&readOpts.ValidOnly, "valid-only", "v", false, "only report valid samples")
	readCmd.SetHelpTemplate(readCmd.HelpTemplate() + extendedReadHelp)
	rootCmd.AddCommand(readCmd)
}

var extendedReadHelp = `
Formats:
  text:         one line of text per sample
  json:         one JSON object per sample
  cbor:         one CBOR map per sample
  redis://host:port/channel
                publish samples to a Redis channel

Samples:
  A sample is valid if both the X and Y conversions are below 4095.
  Z1 and Z2 are reported as read.
`

var (
	readCmd = &cobra.Command{
		Use:                   "read [flags]",
		Short:                 "Read the touch position and pressure",
		Long:                  `Read the raw X, Y, Z1 and Z2 conversions from the device.`,
		Args:                  cobra.NoArgs,
		RunE:                  read,
		DisableFlagsInUseLine: true,
	}
	readOpts = struct {
		Count     uint
		Interval  string
		Format    string
		ValidOnly bool
	}{}
)

func read(cmd *cobra.Command, args []string) error {
	period, err := time.ParseDuration(readOpts.Interval)
	if err != nil {
		return fmt.Errorf("can't parse interval '%s': %s", readOpts.Interval, err)
	}
	s, err := sink.Parse(readOpts.Format, os.Stdout)
	if err != nil {
		return err
	}
	defer s.Close()
	d, b, err := openDevice()
	if err != nil {
		return err
	}
	defer b.Close()
	defer d.Close()
	for n := uint(0); readOpts.Count == 0 || n < readOpts.Count; {
		sample, ok, err := d.ReadTouch()
		if err != nil {
			return err
		}
		if ok || !readOpts.ValidOnly {
			if err = s.Publish(sink.NewEvent(time.Now(), sample)); err != nil {
				return err
			}
			n++
		}
		if readOpts.Count == 0 || n < readOpts.Count {
			time.Sleep(period)
		}
	}
	return nil
}
