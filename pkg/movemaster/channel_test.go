// SPDX-License-Identifier: Apache-2.0

package movemaster

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestChannelTell(t *testing.T) {
	ft := newFakeTransport()
	c := NewChannel(ft, time.Second, 0)
	defer c.Close()

	if err := c.Tell(context.Background(), "SP 5"); err != nil {
		t.Fatalf("Tell failed: %v", err)
	}

	got := ft.commands()
	if len(got) != 1 || got[0] != "SP 5" {
		t.Errorf("wrote %v, want [SP 5]", got)
	}
}

func TestChannelAsk(t *testing.T) {
	ft := newFakeTransport()
	ft.respond = respondWith(map[string]string{
		"WH": "+012.300, .500,-001.000,+000.000,+090.000",
	})
	c := NewChannel(ft, time.Second, 0)
	defer c.Close()

	got, err := c.Ask(context.Background(), "WH")
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}
	want := "+012.300, .500,-001.000,+000.000,+090.000"
	if got != want {
		t.Errorf("Ask = %q, want %q", got, want)
	}
}

func TestChannelAskTimeoutDesynchronizes(t *testing.T) {
	ft := newFakeTransport()
	c := NewChannel(ft, 30*time.Millisecond, 0)
	defer c.Close()

	_, err := c.Ask(context.Background(), "WH")
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("Ask = %v, want ErrTimeout", err)
	}

	// The channel is unusable until reopened.
	if err := c.Tell(context.Background(), "SP 5"); !errors.Is(err, ErrDisconnected) {
		t.Errorf("Tell after timeout = %v, want ErrDisconnected", err)
	}
	if c.IsOpen() {
		t.Error("IsOpen should report false after timeout")
	}
}

func TestChannelWriteFailed(t *testing.T) {
	ft := newFakeTransport()
	ft.writeErr = fmt.Errorf("device gone")
	c := NewChannel(ft, time.Second, 0)
	defer c.Close()

	if _, err := c.Ask(context.Background(), "WH"); !errors.Is(err, ErrWriteFailed) {
		t.Fatalf("Ask = %v, want ErrWriteFailed", err)
	}

	// A failed write frees the pending-response slot.
	ft.mu.Lock()
	ft.writeErr = nil
	ft.respond = respondWith(map[string]string{"ER": "0"})
	ft.mu.Unlock()

	if _, err := c.Ask(context.Background(), "ER"); err != nil {
		t.Errorf("Ask after recovered write = %v, want nil", err)
	}
}

func TestChannelClosed(t *testing.T) {
	ft := newFakeTransport()
	c := NewChannel(ft, time.Second, 0)

	if err := c.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("second Close = %v, want nil", err)
	}

	if err := c.Tell(context.Background(), "SP 5"); !errors.Is(err, ErrPortNotOpen) {
		t.Errorf("Tell after Close = %v, want ErrPortNotOpen", err)
	}
	if _, err := c.Ask(context.Background(), "WH"); !errors.Is(err, ErrPortNotOpen) {
		t.Errorf("Ask after Close = %v, want ErrPortNotOpen", err)
	}
}

func TestChannelRejectsOverlappingAsk(t *testing.T) {
	ft := newFakeTransport()
	c := NewChannel(ft, time.Second, 0)
	defer c.Close()

	firstDone := make(chan error, 1)
	go func() {
		_, err := c.Ask(context.Background(), "WH")
		firstDone <- err
	}()

	// Let the first request get on the wire and start waiting.
	time.Sleep(20 * time.Millisecond)

	if _, err := c.Ask(context.Background(), "ER"); !errors.Is(err, ErrProtocolViolation) {
		t.Fatalf("overlapping Ask = %v, want ErrProtocolViolation", err)
	}

	// The in-flight request still completes with its own reply.
	ft.push("+000.000,+000.000,+000.000,+000.000,+000.000" + terminator)
	if err := <-firstDone; err != nil {
		t.Errorf("in-flight Ask = %v, want nil", err)
	}

	// But the channel is desynchronized afterwards.
	if err := c.Tell(context.Background(), "SP 5"); !errors.Is(err, ErrDisconnected) {
		t.Errorf("Tell after violation = %v, want ErrDisconnected", err)
	}
}

func TestChannelCloseRejectsPendingAsk(t *testing.T) {
	ft := newFakeTransport()
	c := NewChannel(ft, time.Second, 0)

	done := make(chan error, 1)
	go func() {
		_, err := c.Ask(context.Background(), "WH")
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	c.Close()

	if err := <-done; !errors.Is(err, ErrDisconnected) {
		t.Errorf("pending Ask after Close = %v, want ErrDisconnected", err)
	}
}
