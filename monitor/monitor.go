// SPDX-FileCopyrightText: 2026 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

// Package monitor tracks touches on a TSC2007 and publishes the samples.
//
// The monitor idles until the panel is touched, either by waiting for a
// pen down trigger, such as from a penirq.Watcher, or by polling. It then
// samples the panel periodically until the touch is released.
package monitor

import (
	"context"
	"time"

	"github.com/warthog618/tsc2007"
	"github.com/warthog618/tsc2007/sink"
)

// Reader reads touch samples.
//
// This is satisfied by *tsc2007.Device.
type Reader interface {
	ReadTouch() (tsc2007.Sample, bool, error)
}

// Monitor samples a Reader while it is touched.
type Monitor struct {
	r             Reader
	s             sink.Sink
	interval      time.Duration
	reportRelease bool
	wait          func(ctx context.Context) error
	drain         func()
	onPublishErr  func(error)
	now           func() time.Time
}

// Option specifies a construction option for the Monitor.
type Option func(*Monitor)

// WithInterval sets the period between samples.
//
// The default is 20ms.
func WithInterval(d time.Duration) Option {
	return func(m *Monitor) {
		m.interval = d
	}
}

// WithReportRelease publishes the first invalid sample following a touch, so
// consumers can detect the release.
func WithReportRelease() Option {
	return func(m *Monitor) {
		m.reportRelease = true
	}
}

// WithPublishErrorHandler provides a handler for errors returned by the sink.
//
// By default a publish error stops the monitor.
func WithPublishErrorHandler(eh func(error)) Option {
	return func(m *Monitor) {
		m.onPublishErr = eh
	}
}

// WithTrigger idles until a value is received from ch, rather than polling.
func WithTrigger[E any](ch <-chan E) Option {
	return func(m *Monitor) {
		m.wait = func(ctx context.Context) error {
			select {
			case <-ch:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		// edges seen while tracking belong to the touch just tracked.
		m.drain = func() {
			for {
				select {
				case <-ch:
				default:
					return
				}
			}
		}
	}
}

// New creates a Monitor publishing samples from r to s.
func New(r Reader, s sink.Sink, options ...Option) *Monitor {
	m := Monitor{
		r:        r,
		s:        s,
		interval: 20 * time.Millisecond,
		drain:    func() {},
		now:      time.Now,
	}
	for _, option := range options {
		option(&m)
	}
	if m.wait == nil {
		m.wait = m.sleep
	}
	return &m
}

// Run monitors the reader until the context is done or an error occurs.
//
// Read errors are returned immediately, as the state of the device is then
// indeterminate.
func (m *Monitor) Run(ctx context.Context) error {
	for {
		if err := m.wait(ctx); err != nil {
			return err
		}
		if err := m.track(ctx); err != nil {
			return err
		}
		m.drain()
	}
}

// track samples the reader until the touch is released.
func (m *Monitor) track(ctx context.Context) error {
	touched := false
	for {
		s, ok, err := m.r.ReadTouch()
		if err != nil {
			return err
		}
		if !ok {
			if touched && m.reportRelease {
				return m.publish(s)
			}
			return nil
		}
		touched = true
		if err = m.publish(s); err != nil {
			return err
		}
		if err = m.sleep(ctx); err != nil {
			return err
		}
	}
}

func (m *Monitor) publish(s tsc2007.Sample) error {
	err := m.s.Publish(sink.NewEvent(m.now(), s))
	if err != nil && m.onPublishErr != nil {
		m.onPublishErr(err)
		return nil
	}
	return err
}

func (m *Monitor) sleep(ctx context.Context) error {
	t := time.NewTimer(m.interval)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
