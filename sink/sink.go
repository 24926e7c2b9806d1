// SPDX-FileCopyrightText: 2026 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

// Package sink provides destinations for touch samples read from a TSC2007.
package sink

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/warthog618/tsc2007"
)

// Event is a touch sample and the time it was read.
type Event struct {
	Time  time.Time `json:"time" cbor:"1,keyasint"`
	X     uint16    `json:"x" cbor:"2,keyasint"`
	Y     uint16    `json:"y" cbor:"3,keyasint"`
	Z1    uint16    `json:"z1" cbor:"4,keyasint"`
	Z2    uint16    `json:"z2" cbor:"5,keyasint"`
	Valid bool      `json:"valid" cbor:"6,keyasint"`
}

// NewEvent creates an Event from a sample.
func NewEvent(t time.Time, s tsc2007.Sample) Event {
	return Event{
		Time:  t,
		X:     s.X,
		Y:     s.Y,
		Z1:    s.Z1,
		Z2:    s.Z2,
		Valid: s.Valid(),
	}
}

// Sample returns the touch sample contained in the event.
func (e Event) Sample() tsc2007.Sample {
	return tsc2007.Sample{X: e.X, Y: e.Y, Z1: e.Z1, Z2: e.Z2}
}

// Sink is a destination for touch events.
type Sink interface {
	Publish(Event) error
	Close() error
}

type writer struct {
	mu  sync.Mutex
	w   io.Writer
	enc func(Event) error
}

func (s *writer) Publish(e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enc(e)
}

// Close does not close the underlying writer.
func (s *writer) Close() error {
	return nil
}

// NewText creates a Sink that writes events to w as lines of text.
func NewText(w io.Writer) Sink {
	return &writer{w: w, enc: func(e Event) error {
		_, err := fmt.Fprintf(w, "x=%4d y=%4d z1=%4d z2=%4d valid=%-5t %s\n",
			e.X, e.Y, e.Z1, e.Z2, e.Valid, e.Time.Format(time.RFC3339Nano))
		return err
	}}
}

// NewJSON creates a Sink that writes events to w as a stream of JSON objects.
func NewJSON(w io.Writer) Sink {
	enc := json.NewEncoder(w)
	return &writer{w: w, enc: func(e Event) error {
		return enc.Encode(e)
	}}
}

// NewCBOR creates a Sink that writes events to w as a sequence of CBOR maps.
//
// Times are encoded as RFC 3339 strings with nanosecond resolution.
func NewCBOR(w io.Writer) (Sink, error) {
	em, err := cbor.EncOptions{Time: cbor.TimeRFC3339Nano}.EncMode()
	if err != nil {
		return nil, err
	}
	enc := em.NewEncoder(w)
	return &writer{w: w, enc: func(e Event) error {
		return enc.Encode(e)
	}}, nil
}

type multi []Sink

// Multi creates a Sink that publishes to all the sinks.
//
// Publishing continues past failing sinks, and the first error is returned.
func Multi(ss ...Sink) Sink {
	return multi(ss)
}

func (m multi) Publish(e Event) error {
	var rerr error
	for _, s := range m {
		if err := s.Publish(e); err != nil && rerr == nil {
			rerr = err
		}
	}
	return rerr
}

func (m multi) Close() error {
	var rerr error
	for _, s := range m {
		if err := s.Close(); err != nil && rerr == nil {
			rerr = err
		}
	}
	return rerr
}

// Parse creates the Sink described by name.
//
// The name is one of "text", "json", "cbor", which write to w, or a
// "redis://host:port/channel" URL.
func Parse(name string, w io.Writer) (Sink, error) {
	switch strings.ToLower(name) {
	case "text", "":
		return NewText(w), nil
	case "json":
		return NewJSON(w), nil
	case "cbor":
		return NewCBOR(w)
	}
	u, err := url.Parse(name)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "redis" {
		return nil, ErrorUnknownSink(name)
	}
	channel := strings.Trim(u.Path, "/")
	if channel == "" {
		channel = DefaultChannel
	}
	if u.Host == "" {
		return nil, ErrorUnknownSink(name)
	}
	return NewRedis(u.Host, channel), nil
}

// ParseAll creates a Multi Sink from a list of sink names.
func ParseAll(names []string, w io.Writer) (Sink, error) {
	ss := make([]Sink, 0, len(names))
	for _, name := range names {
		s, err := Parse(name, w)
		if err != nil {
			Multi(ss...).Close()
			return nil, err
		}
		ss = append(ss, s)
	}
	if len(ss) == 1 {
		return ss[0], nil
	}
	return Multi(ss...), nil
}

// ErrClosed indicates the sink has been closed.
var ErrClosed = errors.New("closed")

// ErrorUnknownSink indicates the sink name is not recognised.
type ErrorUnknownSink string

func (e ErrorUnknownSink) Error() string {
	return fmt.Sprintf("unknown sink '%s'", string(e))
}
