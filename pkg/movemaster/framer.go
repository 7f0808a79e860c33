// SPDX-License-Identifier: Apache-2.0

package movemaster

import (
	"bytes"
	"strings"
	"sync"
)

// Framer accumulates raw transport bytes and splits them into CR-LF
// terminated responses. Chunk boundaries are arbitrary: a response may
// arrive byte by byte, or several responses may share one chunk. Each
// detected terminator yields exactly one trimmed response, and any
// remainder is carried over into the next accumulation cycle.
//
// At most one consumer may wait for a response at a time. Responses
// that complete while no consumer is registered are queued in arrival
// order for the next Expect call.
type Framer struct {
	mu     sync.Mutex
	buf    []byte
	ready  []string
	waiter chan string
	closed bool
}

func NewFramer() *Framer {
	return &Framer{}
}

// Feed appends a chunk of raw bytes and delivers any responses it
// completes. Safe to call from the transport read loop.
func (f *Framer) Feed(chunk []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}

	f.buf = append(f.buf, chunk...)
	for {
		i := bytes.Index(f.buf, []byte(terminator))
		if i < 0 {
			return
		}
		line := strings.TrimSpace(string(f.buf[:i]))
		f.buf = f.buf[i+len(terminator):]

		if f.waiter != nil {
			f.waiter <- line
			f.waiter = nil
		} else {
			f.ready = append(f.ready, line)
		}
	}
}

// Expect registers the single pending-response slot and returns a
// channel that yields exactly one response. If a response already
// completed, the channel is pre-filled. Registering while another
// consumer is outstanding is a programming error and fails with
// ErrProtocolViolation. The returned channel is closed without a value
// if the framer shuts down first.
func (f *Framer) Expect() (<-chan string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil, ErrDisconnected
	}
	if f.waiter != nil {
		return nil, ErrProtocolViolation
	}

	ch := make(chan string, 1)
	if len(f.ready) > 0 {
		ch <- f.ready[0]
		f.ready = f.ready[1:]
		return ch, nil
	}
	f.waiter = ch
	return ch, nil
}

// Cancel clears the pending-response slot after a timeout or a failed
// write, so the next request can register cleanly.
func (f *Framer) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.waiter = nil
}

// Close drops all buffered state and rejects a pending consumer by
// closing its channel. Idempotent.
func (f *Framer) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	f.buf = nil
	f.ready = nil
	if f.waiter != nil {
		close(f.waiter)
		f.waiter = nil
	}
}
