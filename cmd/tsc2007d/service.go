// SPDX-FileCopyrightText: 2026 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

//go:build linux
// +build linux

package main

import (
	"context"
	"io"
	"log"
	"time"

	"github.com/warthog618/tsc2007"
	"github.com/warthog618/tsc2007/i2c"
	"github.com/warthog618/tsc2007/internal/config"
	"github.com/warthog618/tsc2007/internal/logger"
	"github.com/warthog618/tsc2007/monitor"
	"github.com/warthog618/tsc2007/penirq"
	"github.com/warthog618/tsc2007/sink"
)

// busOpener opens the bus described by the device config.
//
// The returned Closer releases the bus.
type busOpener func(config.DeviceConfig) (tsc2007.Transport, io.Closer, error)

func openI2C(dc config.DeviceConfig) (tsc2007.Transport, io.Closer, error) {
	opts := []i2c.Option{}
	if f, _ := dc.Frequency(); f != 0 {
		opts = append(opts, i2c.WithSpeed(f))
	}
	b, err := i2c.Open(dc.Bus, opts...)
	if err != nil {
		return nil, nil, err
	}
	return b, b, nil
}

// service owns the device and the monitor publishing its touches.
type service struct {
	std     *log.Logger
	log     *logger.Logger
	openBus busOpener
	// where the text, json and cbor sinks write
	stdout      io.Writer
	retryPeriod time.Duration
	// overrides the configured log level, if set
	level       string
	cfg         *config.Config
	bus         tsc2007.Transport
	busCloser   io.Closer
	dev         tsc2007.Device
	irq         *penirq.Watcher
	out         sink.Sink
	cancel      context.CancelFunc
	// closed when the monitor goroutine exits
	stopped chan struct{}
	// receives the error that stopped the monitor
	done chan error
}

func newService(std *log.Logger, l *logger.Logger, open busOpener, stdout io.Writer) *service {
	return &service{
		std:         std,
		log:         l,
		openBus:     open,
		stdout:      stdout,
		retryPeriod: retryPeriod,
		done:        make(chan error, 1),
	}
}

// start opens the bus, if not already open, initialises the device and
// starts the monitor.
func (s *service) start(cfg *config.Config) error {
	if s.level != "" {
		cfg.LogLevel = s.level
	}
	if lvl, err := logger.ParseLevel(cfg.LogLevel); err == nil && lvl != s.log.Level() {
		s.log = logger.New(s.std, lvl)
	}
	s.cfg = cfg
	if s.bus == nil {
		b, c, err := s.openBus(cfg.Device)
		if err != nil {
			return err
		}
		s.bus = b
		s.busCloser = c
		s.log.Infof("opened bus '%s'", cfg.Device.Bus)
	}
	// releases any connection from a prior start
	if err := s.dev.Init(s.bus, tsc2007.WithAddress(cfg.Device.Address)); err != nil {
		return err
	}
	s.log.Infof("found TSC2007 at 0x%02x", s.dev.Address())
	out, err := sink.ParseAll(cfg.Output.Sinks, s.stdout)
	if err != nil {
		return err
	}
	s.out = out
	interval, _ := cfg.Sample.Interval()
	mlog := s.log.WithTag("monitor")
	opts := []monitor.Option{
		monitor.WithInterval(interval),
		monitor.WithPublishErrorHandler(func(err error) {
			mlog.Warnf("publish failed: %v", err)
		}),
	}
	if cfg.Sample.ReportRelease {
		opts = append(opts, monitor.WithReportRelease())
	}
	if cfg.PenIRQ.Enabled {
		offset, _ := cfg.PenIRQ.Offset()
		wopts := []penirq.Option{penirq.WithConsumer("tsc2007d")}
		if !cfg.PenIRQ.PullUp {
			wopts = append(wopts, penirq.WithoutPullUp())
		}
		w, err := penirq.Watch(cfg.PenIRQ.Chip, offset, wopts...)
		if err != nil {
			return err
		}
		s.irq = w
		opts = append(opts, monitor.WithTrigger(w.Events()))
		s.log.Infof("watching PENIRQ on %s:%d", cfg.PenIRQ.Chip, offset)
	} else {
		s.log.Infof("polling every %s", interval)
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.stopped = make(chan struct{})
	m := monitor.New(&s.dev, s.out, opts...)
	go func(stopped chan struct{}) {
		defer close(stopped)
		err := m.Run(ctx)
		if ctx.Err() == nil {
			s.done <- err
		}
	}(s.stopped)
	return nil
}

// stop stops the monitor and releases the PENIRQ line and sinks.
//
// The device and bus are retained.
func (s *service) stop() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
		<-s.stopped
	}
	if s.irq != nil {
		s.irq.Close()
		s.irq = nil
	}
	if s.out != nil {
		s.out.Close()
		s.out = nil
	}
}

// restart stops the service and starts it with cfg.
//
// The bus is reopened if its settings have changed.
func (s *service) restart(cfg *config.Config) error {
	s.stop()
	if s.cfg != nil && s.bus != nil && s.cfg.Device != cfg.Device {
		s.closeBus()
	}
	// drop any error from the stopped monitor
	select {
	case <-s.done:
	default:
	}
	return s.start(cfg)
}

// run restarts the service on config changes and monitor failures until ctx
// is done.
//
// A failed restart is retried every retryPeriod until it succeeds or the
// config changes. If the service is not running it is restarted after the
// first retryPeriod.
func (s *service) run(ctx context.Context, changes <-chan *config.Config, cerrs <-chan error) {
	var retry <-chan time.Time
	if s.cancel == nil {
		retry = time.After(s.retryPeriod)
	}
	restart := func(cfg *config.Config) {
		if err := s.restart(cfg); err != nil {
			s.log.Errorf("restart failed: %v", err)
			retry = time.After(s.retryPeriod)
			return
		}
		retry = nil
	}
	for {
		select {
		case <-ctx.Done():
			return
		case cfg := <-changes:
			s.log.Infof("configuration changed, restarting")
			restart(cfg)
		case err := <-cerrs:
			s.log.Warnf("error reloading config: %v", err)
		case err := <-s.done:
			s.log.Errorf("monitor stopped: %v", err)
			retry = time.After(s.retryPeriod)
		case <-retry:
			restart(s.cfg)
		}
	}
}

func (s *service) closeBus() {
	s.dev.Close()
	if s.busCloser != nil {
		s.busCloser.Close()
	}
	s.bus = nil
	s.busCloser = nil
}

func (s *service) close() {
	s.stop()
	s.closeBus()
}
