// SPDX-License-Identifier: Apache-2.0

package movemaster

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Channel serializes command dispatch on one transport. It guarantees
// at most one outstanding request at any time: the protocol has no
// per-message addressing, so a second write before the first response
// arrives would corrupt correlation. Overlapping calls fail with
// ErrProtocolViolation instead of queueing, and like a response
// timeout they leave the channel desynchronized until it is reopened.
type Channel struct {
	mu     sync.Mutex // the single command lane
	tr     Transport
	framer *Framer

	timeout time.Duration
	settle  time.Duration

	open   atomic.Bool
	desync atomic.Bool
}

// NewChannel wraps an open transport and starts its read loop.
func NewChannel(tr Transport, timeout, settle time.Duration) *Channel {
	c := &Channel{
		tr:      tr,
		framer:  NewFramer(),
		timeout: timeout,
		settle:  settle,
	}
	c.open.Store(true)
	go c.readLoop()
	return c
}

func (c *Channel) readLoop() {
	buf := make([]byte, 256)
	for {
		n, err := c.tr.Read(buf)
		if n > 0 {
			c.framer.Feed(buf[:n])
		}
		if err != nil {
			c.framer.Close()
			return
		}
	}
}

// IsOpen reports whether the channel is still usable.
func (c *Channel) IsOpen() bool {
	return c.open.Load() && !c.desync.Load()
}

// Tell writes a fire-and-forget command and then holds the lane for
// the settle delay. The controller gives no acknowledgment for these
// commands and overruns its input buffer without the pacing.
func (c *Channel) Tell(ctx context.Context, cmd string) error {
	if !c.mu.TryLock() {
		c.desync.Store(true)
		return ErrProtocolViolation
	}
	defer c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.usable(); err != nil {
		return err
	}
	if err := c.write(cmd); err != nil {
		return err
	}

	// Once written the command cannot be aborted; the settle delay
	// always runs to completion.
	time.Sleep(c.settle)
	return nil
}

// Ask writes a command and suspends until exactly one framed response
// arrives, returning its trimmed text. The pending-response slot is
// installed before the write so a fast reply cannot be lost.
func (c *Channel) Ask(ctx context.Context, cmd string) (string, error) {
	if !c.mu.TryLock() {
		c.desync.Store(true)
		return "", ErrProtocolViolation
	}
	defer c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := c.usable(); err != nil {
		return "", err
	}

	ch, err := c.framer.Expect()
	if err != nil {
		return "", err
	}
	if err := c.write(cmd); err != nil {
		c.framer.Cancel()
		return "", err
	}

	timer := time.NewTimer(c.timeout)
	defer timer.Stop()

	select {
	case line, ok := <-ch:
		if !ok {
			return "", ErrDisconnected
		}
		return line, nil
	case <-timer.C:
		c.framer.Cancel()
		c.desync.Store(true)
		return "", fmt.Errorf("%w: no reply to %q within %v", ErrTimeout, cmd, c.timeout)
	case <-ctx.Done():
		// The command is already on the wire and may still produce a
		// reply; abandoning the wait desynchronizes the channel.
		c.framer.Cancel()
		c.desync.Store(true)
		return "", ctx.Err()
	}
}

// Close shuts the transport down, releases framer state and rejects a
// pending waiter with ErrDisconnected. Idempotent.
func (c *Channel) Close() error {
	if !c.open.CompareAndSwap(true, false) {
		return nil
	}
	err := c.tr.Close()
	c.framer.Close()
	return err
}

func (c *Channel) usable() error {
	if !c.open.Load() {
		return ErrPortNotOpen
	}
	if c.desync.Load() {
		return ErrDisconnected
	}
	return nil
}

func (c *Channel) write(cmd string) error {
	if _, err := c.tr.Write([]byte(cmd + terminator)); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrWriteFailed, cmd, err)
	}
	return nil
}
