// SPDX-FileCopyrightText: 2026 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

//go:build linux
// +build linux

// A daemon that publishes touches from a TSC2007.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"github.com/warthog618/tsc2007/internal/config"
	"github.com/warthog618/tsc2007/internal/logger"
)

var version = "undefined"

// period to wait before reinitialising the device after a failure.
const retryPeriod = time.Second

func main() {
	os.Exit(run(os.Args[1:], openI2C))
}

// run runs the daemon until it is signalled, returning the exit code.
func run(args []string, open busOpener) int {
	flags := pflag.NewFlagSet("tsc2007d", pflag.ContinueOnError)
	path := flags.StringP("config", "c", "/etc/tsc2007d.toml", "the configuration file")
	level := flags.StringP("log", "l", "", "override the configured log level (none, error, warn, info, debug)")
	showVersion := flags.BoolP("version", "v", false, "display the version and exit")
	if err := flags.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		return 2
	}
	if *showVersion {
		fmt.Printf("%s (tsc2007) %s\n", os.Args[0], version)
		return 0
	}

	var stdLogger *log.Logger
	if os.Getenv("INVOCATION_ID") != "" {
		// systemd adds its own timestamps
		stdLogger = log.New(os.Stdout, "", 0)
	} else {
		stdLogger = log.New(os.Stdout, "", log.LstdFlags|log.Lmicroseconds|log.Lmsgprefix)
	}
	cfg, err := config.Load(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tsc2007d: %s: %s\n", *path, err)
		return 1
	}
	if *level != "" {
		cfg.LogLevel = *level
	}
	lvl, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tsc2007d: %s\n", err)
		return 1
	}
	l := logger.New(stdLogger, lvl)
	l.Infof("starting tsc2007d %s", version)

	var changes <-chan *config.Config
	var cerrs <-chan error
	w, err := config.Watch(*path)
	if err != nil {
		l.Warnf("config changes will be ignored: %v", err)
	} else {
		defer w.Close()
		changes = w.Changes()
		cerrs = w.Errors()
	}

	s := newService(stdLogger, l, open, os.Stdout)
	s.level = *level
	defer s.close()
	if err = s.start(cfg); err != nil {
		l.Errorf("failed to start: %v", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	s.run(ctx, changes, cerrs)
	s.log.Infof("shutting down")
	return 0
}
