// SPDX-FileCopyrightText: 2026 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

//go:build linux
// +build linux

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/warthog618/tsc2007/internal/config"
	"github.com/warthog618/tsc2007/monitor"
	"github.com/warthog618/tsc2007/penirq"
	"github.com/warthog618/tsc2007/sink"
)

func init() {
	monCmd.Flags().StringVarP(&monOpts.Chip, "chip", "c", "gpiochip0", "the GPIO chip PENIRQ is connected to")
	monCmd.Flags().StringVarP(&monOpts.Pin, "penirq", "p", "", "the GPIO line PENIRQ is connected to (default poll)")
	monCmd.Flags().BoolVar(&monOpts.NoPullUp, "no-pull-up", false, "don't enable the pull-up on the PENIRQ line")
	monCmd.Flags().StringVarP(&monOpts.Interval, "interval", "i", "20ms", "the period between samples")
	monCmd.Flags().StringSliceVarP(&monOpts.Sinks, "output", "o", []string{"text"}, "where to publish samples")
	monCmd.Flags().BoolVarP(&monOpts.Release, "release", "r", false, "report the release of a touch")
	monCmd.SetHelpTemplate(monCmd.HelpTemplate() + extendedMonHelp)
	rootCmd.AddCommand(monCmd)
}

var extendedMonHelp = `
PENIRQ:
  The PENIRQ line may be specified as a line offset on the chip, or as
  a Raspberry Pi pin name such as GPIO17 or J8p11.  If no line is
  specified the device is polled.

Outputs:
  text:         one line of text per sample (default)
  json:         one JSON object per sample
  cbor:         one CBOR map per sample
  redis://host:port/channel
                publish samples to a Redis channel
`

var (
	monCmd = &cobra.Command{
		Use:                   "mon [flags]",
		Short:                 "Monitor the panel for touches",
		Long:                  `Wait for the panel to be touched and report samples until the touch is released.`,
		Args:                  cobra.NoArgs,
		RunE:                  mon,
		DisableFlagsInUseLine: true,
	}
	monOpts = struct {
		Chip     string
		Pin      string
		NoPullUp bool
		Interval string
		Sinks    []string
		Release  bool
	}{}
)

func mon(cmd *cobra.Command, args []string) error {
	period, err := time.ParseDuration(monOpts.Interval)
	if err != nil {
		return fmt.Errorf("can't parse interval '%s': %s", monOpts.Interval, err)
	}
	s, err := sink.ParseAll(monOpts.Sinks, os.Stdout)
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
	opts := []monitor.Option{monitor.WithInterval(period)}
	if monOpts.Release {
		opts = append(opts, monitor.WithReportRelease())
	}
	if monOpts.Pin != "" {
		offset, err := config.PenIRQConfig{Pin: monOpts.Pin}.Offset()
		if err != nil {
			return fmt.Errorf("can't parse pin '%s': %s", monOpts.Pin, err)
		}
		wopts := []penirq.Option{penirq.WithConsumer("tsc2007ctl-mon")}
		if monOpts.NoPullUp {
			wopts = append(wopts, penirq.WithoutPullUp())
		}
		w, err := penirq.Watch(monOpts.Chip, offset, wopts...)
		if err != nil {
			return fmt.Errorf("error requesting PENIRQ line: %s", err)
		}
		defer w.Close()
		opts = append(opts, monitor.WithTrigger(w.Events()))
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err = monitor.New(d, s, opts...).Run(ctx)
	if err == context.Canceled {
		return nil
	}
	return err
}
