// SPDX-FileCopyrightText: 2026 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

package sink

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultChannel is the Redis channel events are published to if none is
// specified.
const DefaultChannel = "tsc2007"

// Redis publishes events to a Redis pub/sub channel.
//
// The most recent event is also stored in a hash with the same name as the
// channel, so late subscribers can retrieve the current state.
type Redis struct {
	mu      sync.Mutex
	client  *redis.Client
	addr    string
	channel string
	timeout time.Duration
}

// NewRedis creates a Redis sink publishing to channel on the server at addr.
//
// The connection to the server is established on first use.
func NewRedis(addr, channel string) *Redis {
	return &Redis{
		client:  redis.NewClient(&redis.Options{Addr: addr}),
		addr:    addr,
		channel: channel,
		timeout: time.Second,
	}
}

// Addr returns the address of the server.
func (r *Redis) Addr() string {
	return r.addr
}

// Channel returns the channel events are published to.
func (r *Redis) Channel() string {
	return r.channel
}

// Ping checks the server is reachable.
func (r *Redis) Ping(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.client == nil {
		return ErrClosed
	}
	return r.client.Ping(ctx).Err()
}

// Publish publishes the event to the channel and updates the hash.
func (r *Redis) Publish(e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.client == nil {
		return ErrClosed
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, r.channel, hashFields(e))
	pipe.Publish(ctx, r.channel, payload)
	_, err = pipe.Exec(ctx)
	return err
}

func hashFields(e Event) map[string]interface{} {
	return map[string]interface{}{
		"x":     strconv.Itoa(int(e.X)),
		"y":     strconv.Itoa(int(e.Y)),
		"z1":    strconv.Itoa(int(e.Z1)),
		"z2":    strconv.Itoa(int(e.Z2)),
		"valid": strconv.FormatBool(e.Valid),
		"time":  strconv.FormatInt(e.Time.UnixMicro(), 10),
	}
}

// Close closes the connection to the server.
func (r *Redis) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.client == nil {
		return ErrClosed
	}
	err := r.client.Close()
	r.client = nil
	return err
}
