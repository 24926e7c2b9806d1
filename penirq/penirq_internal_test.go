// SPDX-FileCopyrightText: 2026 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

//go:build linux
// +build linux

package penirq

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warthog618/go-gpiocdev"
)

func TestHandle(t *testing.T) {
	w := newWatcher()
	w.handle(gpiocdev.LineEvent{
		Offset:    17,
		Timestamp: time.Second,
		Type:      gpiocdev.LineEventFallingEdge,
		LineSeqno: 3,
	})
	// rising edges are pen up, so ignored
	w.handle(gpiocdev.LineEvent{Offset: 17, Type: gpiocdev.LineEventRisingEdge})
	// pending event already signals the touch
	w.handle(gpiocdev.LineEvent{Offset: 17, Type: gpiocdev.LineEventFallingEdge, LineSeqno: 4})
	assert.Equal(t, uint32(1), w.Missed())

	select {
	case evt := <-w.Events():
		assert.Equal(t, Event{Offset: 17, Timestamp: time.Second, Seqno: 3}, evt)
	default:
		require.Fail(t, "no event")
	}
	select {
	case evt := <-w.Events():
		assert.Fail(t, "unexpected event", evt)
	default:
	}
}

func TestClosed(t *testing.T) {
	w := newWatcher()
	_, err := w.Pressed()
	assert.Equal(t, ErrClosed, err)
	assert.Equal(t, ErrClosed, w.Close())
}

func TestOptions(t *testing.T) {
	o := options{consumer: "tsc2007", bias: gpiocdev.WithPullUp}
	WithConsumer("touch")(&o)
	WithoutPullUp()(&o)
	assert.Equal(t, "touch", o.consumer)
	assert.Equal(t, gpiocdev.WithBiasDisabled, o.bias)
}

func TestHandleWhileLocked(t *testing.T) {
	w := newWatcher()
	// as if held by Pressed or Close while an edge arrives
	w.mu.Lock()
	defer w.mu.Unlock()
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.handle(gpiocdev.LineEvent{Offset: 17, Type: gpiocdev.LineEventFallingEdge, LineSeqno: 1})
		// pending, so dropped
		w.handle(gpiocdev.LineEvent{Offset: 17, Type: gpiocdev.LineEventFallingEdge, LineSeqno: 2})
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		require.Fail(t, "handler blocked on watcher lock")
	}
	assert.Equal(t, uint32(1), w.Missed())
}
