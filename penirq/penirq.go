// SPDX-FileCopyrightText: 2026 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

//go:build linux
// +build linux

// Package penirq watches the PENIRQ output of a TSC2007 via a GPIO line.
//
// PENIRQ is active low, and is only driven while the device is powered down
// with PENIRQ enabled, as it is after each touch read. A falling edge on the
// line indicates the panel has been touched.
package penirq

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// Event indicates the pen has gone down.
type Event struct {
	// Offset is the offset of the PENIRQ line on the chip.
	Offset int

	// Timestamp is the time the edge was detected, as reported by the kernel.
	Timestamp time.Duration

	// Seqno is the sequence number of the edge on the line.
	Seqno uint32
}

// Watcher watches a PENIRQ line for pen down events.
type Watcher struct {
	mu     sync.Mutex
	l      *gpiocdev.Line
	ch     chan Event
	missed atomic.Uint32
}

// Option specifies a construction option for the Watcher.
type Option func(*options)

type options struct {
	consumer string
	bias     gpiocdev.LineReqOption
}

// WithConsumer sets the consumer label for the line.
//
// The default is "tsc2007".
func WithConsumer(consumer string) Option {
	return func(o *options) {
		o.consumer = consumer
	}
}

// WithoutPullUp disables the internal pull-up on the line, for boards that
// provide an external pull-up.
func WithoutPullUp() Option {
	return func(o *options) {
		o.bias = gpiocdev.WithBiasDisabled
	}
}

// Watch requests the PENIRQ line and starts watching it for pen down events.
func Watch(chip string, offset int, opts ...Option) (*Watcher, error) {
	o := options{consumer: "tsc2007", bias: gpiocdev.WithPullUp}
	for _, opt := range opts {
		opt(&o)
	}
	w := newWatcher()
	l, err := gpiocdev.RequestLine(chip, offset,
		gpiocdev.AsInput,
		o.bias,
		gpiocdev.WithFallingEdge,
		gpiocdev.WithEventHandler(w.handle),
		gpiocdev.WithConsumer(o.consumer))
	if err != nil {
		return nil, err
	}
	w.mu.Lock()
	w.l = l
	w.mu.Unlock()
	return w, nil
}

func newWatcher() *Watcher {
	return &Watcher{ch: make(chan Event, 1)}
}

// handle forwards the edge to the event channel.
//
// The handler runs in the line's event goroutine, which Close waits on, so it
// must neither block nor take w.mu. An edge arriving while an earlier one is
// still pending is dropped. A pending edge already indicates a touch to read.
func (w *Watcher) handle(evt gpiocdev.LineEvent) {
	if evt.Type != gpiocdev.LineEventFallingEdge {
		return
	}
	select {
	case w.ch <- Event{Offset: evt.Offset, Timestamp: evt.Timestamp, Seqno: evt.LineSeqno}:
	default:
		w.missed.Add(1)
	}
}

// Events returns the channel of pen down events.
func (w *Watcher) Events() <-chan Event {
	return w.ch
}

// Missed returns the number of edges dropped as an earlier event was still
// pending.
func (w *Watcher) Missed() uint32 {
	return w.missed.Load()
}

// Pressed returns true if PENIRQ is currently asserted.
func (w *Watcher) Pressed() (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.l == nil {
		return false, ErrClosed
	}
	v, err := w.l.Value()
	if err != nil {
		return false, err
	}
	return v == 0, nil
}

// Close releases the line.
//
// Closing the line waits for the event goroutine to exit, so the line is
// closed without holding w.mu.
func (w *Watcher) Close() error {
	w.mu.Lock()
	l := w.l
	w.l = nil
	w.mu.Unlock()
	if l == nil {
		return ErrClosed
	}
	return l.Close()
}

// ErrClosed indicates the watcher is closed.
var ErrClosed = errors.New("closed")
